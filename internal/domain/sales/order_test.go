package sales

import (
	"testing"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	sessionID := uuid.New()
	order, err := NewOrder(uuid.New(), "ORD-20260101-00001", uuid.New(), uuid.New(), &sessionID)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(uuid.New(), "Lip Gloss", 2, decimal.RequireFromString("12.50")))
	require.NoError(t, order.AddItem(uuid.New(), "Serum", 1, decimal.RequireFromString("45.00")))
	return order
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(uuid.New(), "", uuid.New(), uuid.New(), nil)
	assert.Error(t, err)
	_, err = NewOrder(uuid.New(), "ORD-1", uuid.Nil, uuid.New(), nil)
	assert.Error(t, err)
	_, err = NewOrder(uuid.New(), "ORD-1", uuid.New(), uuid.Nil, nil)
	assert.Error(t, err)
}

func TestOrder_AddItem(t *testing.T) {
	order := newTestOrder(t)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("70")))
	assert.Equal(t, 3, order.ItemsSold())
	assert.Len(t, order.Items, 2)

	assert.Error(t, order.AddItem(uuid.New(), "x", 0, decimal.NewFromInt(1)))
	assert.Error(t, order.AddItem(uuid.New(), "x", 1, decimal.NewFromInt(-1)))
	assert.Error(t, order.AddItem(uuid.Nil, "x", 1, decimal.NewFromInt(1)))
}

func TestOrder_CreatedEventCarriesTotal(t *testing.T) {
	order := newTestOrder(t)
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.True(t, created.TotalAmount.Equal(decimal.RequireFromString("70")))
}

func TestOrder_Complete(t *testing.T) {
	t.Run("cash", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Complete(PaymentMethodCash, decimal.Zero))
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.True(t, order.CashAmount.Equal(order.TotalAmount))
		assert.True(t, order.CardAmount.IsZero())
		assert.NotNil(t, order.CompletedAt)

		events := order.GetDomainEvents()
		completed, ok := events[len(events)-1].(*OrderCompletedEvent)
		require.True(t, ok)
		assert.Equal(t, order.TillSessionID, completed.TillSessionID)
	})

	t.Run("card", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Complete(PaymentMethodCard, decimal.Zero))
		assert.True(t, order.CardAmount.Equal(order.TotalAmount))
		assert.True(t, order.CashAmount.IsZero())
	})

	t.Run("split", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Complete(PaymentMethodSplit, decimal.NewFromInt(20)))
		assert.True(t, order.CashAmount.Equal(decimal.NewFromInt(20)))
		assert.True(t, order.CardAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("split outside the total", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Error(t, order.Complete(PaymentMethodSplit, decimal.NewFromInt(70)))
		assert.Error(t, order.Complete(PaymentMethodSplit, decimal.Zero))
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("empty order", func(t *testing.T) {
		order, err := NewOrder(uuid.New(), "ORD-2", uuid.New(), uuid.New(), nil)
		require.NoError(t, err)
		err = order.Complete(PaymentMethodCash, decimal.Zero)
		de, _ := shared.AsDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, "EMPTY_ORDER", de.Code)
	})

	t.Run("twice", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Complete(PaymentMethodCash, decimal.Zero))
		assert.Error(t, order.Complete(PaymentMethodCash, decimal.Zero))
	})
}

func TestOrder_Cancel(t *testing.T) {
	order := newTestOrder(t)
	assert.Error(t, order.Cancel(""))
	require.NoError(t, order.Cancel("customer left"))
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.Error(t, order.Complete(PaymentMethodCash, decimal.Zero))
}
