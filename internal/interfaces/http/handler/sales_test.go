package handler

import (
	"net/http"
	"testing"
	"time"

	reconapp "github.com/glowpos/backend/internal/application/reconciliation"
	salesapp "github.com/glowpos/backend/internal/application/sales"
	tillapp "github.com/glowpos/backend/internal/application/till"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_CheckoutFlow(t *testing.T) {
	f := newAPIFixture(t)
	serum := f.seedProduct(t, "SER-01", "Vitamin C Serum", "45.00")
	mask := f.seedProduct(t, "MSK-01", "Clay Mask", "12.50")
	session := f.openSession(t, "100.00")

	w := f.do(t, http.MethodPost, "/api/v1/sales/orders", map[string]any{
		"store_id":        f.storeID,
		"till_session_id": session.ID,
		"items": []map[string]any{
			{"product_id": serum.ID, "quantity": 2},
			{"product_id": mask.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order salesapp.OrderResponse
	decode(t, w, &order)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "102.5", order.TotalAmount.String())
	assert.Equal(t, 3, order.ItemsSold)
	assert.Equal(t, f.userID, order.EmployeeID)

	w = f.do(t, http.MethodPost, "/api/v1/sales/orders/"+order.ID.String()+"/complete", map[string]any{
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &order)
	assert.Equal(t, "completed", order.Status)

	t.Run("till session picks up the sale", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/till/sessions/"+session.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got tillapp.SessionResponse
		decode(t, w, &got)
		assert.Equal(t, "102.5", got.TotalSales.String())
		assert.Equal(t, "102.5", got.TotalCashSales.String())
		assert.Equal(t, 1, got.TransactionCount)
		assert.Equal(t, "202.5", got.ExpectedCash.String())
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/sales/orders/"+order.ID.String()+"/cancel", map[string]any{
			"reason": "changed mind",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("reconciliation preview", func(t *testing.T) {
		date := time.Now().UTC().Format(reconapp.DateLayout)
		w := f.do(t, http.MethodGet, "/api/v1/reconciliation/preview?store_id="+f.storeID.String()+"&date="+date, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var report reconapp.ReportResponse
		decode(t, w, &report)
		assert.Equal(t, "102.5", report.TotalSales.String())
		assert.Equal(t, 1, report.TransactionCount)
		assert.Equal(t, 3, report.ItemsSold)
		require.NotNil(t, report.TillSessionID)
		assert.Equal(t, session.ID, *report.TillSessionID)
	})

	t.Run("save and fetch a report", func(t *testing.T) {
		date := time.Now().UTC().Format(reconapp.DateLayout)
		w := f.do(t, http.MethodPost, "/api/v1/reconciliation/reports", map[string]any{
			"store_id": f.storeID,
			"date":     date,
			"notes":    "end of day",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var saved reconapp.ReportResponse
		decode(t, w, &saved)
		assert.Equal(t, "end of day", saved.Notes)
		assert.Equal(t, f.userID, saved.GeneratedBy)

		w = f.do(t, http.MethodGet, "/api/v1/reconciliation/reports/"+saved.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var fetched reconapp.ReportResponse
		decode(t, w, &fetched)
		assert.Equal(t, saved.ID, fetched.ID)

		w = f.do(t, http.MethodGet, "/api/v1/reconciliation/reports", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decode(t, w, nil)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
	})
}

func TestOrderHandler_Validation(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("order without items", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/sales/orders", map[string]any{
			"store_id": f.storeID,
			"items":    []map[string]any{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/sales/orders/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/v1/sales/orders/"+uuid.NewString()+"/complete", map[string]any{
			"payment_method": "voucher",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("preview needs a valid date", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/reconciliation/preview?store_id="+f.storeID.String()+"&date=17-10-2026", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_CompleteAfterTillClosed(t *testing.T) {
	f := newAPIFixture(t)
	toner := f.seedProduct(t, "TON-01", "Rose Toner", "18.00")
	session := f.openSession(t, "50.00")

	w := f.do(t, http.MethodPost, "/api/v1/sales/orders", map[string]any{
		"store_id":        f.storeID,
		"till_session_id": session.ID,
		"items":           []map[string]any{{"product_id": toner.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order salesapp.OrderResponse
	decode(t, w, &order)

	w = f.do(t, http.MethodPost, "/api/v1/till/sessions/"+session.ID.String()+"/close", map[string]any{"amount": "50.00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/sales/orders/"+order.ID.String()+"/complete", map[string]any{
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "SESSION_NOT_ACTIVE", env.Error.Code)

	w = f.do(t, http.MethodGet, "/api/v1/sales/orders/"+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &order)
	assert.Equal(t, "pending", order.Status)

	w = f.do(t, http.MethodGet, "/api/v1/till/sessions/"+session.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var closed tillapp.SessionResponse
	decode(t, w, &closed)
	assert.Equal(t, 0, closed.TransactionCount)
	assert.True(t, closed.TotalSales.IsZero())
}
