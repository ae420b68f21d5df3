// Package sales implements checkout: ringing up, completing and voiding
// orders.
package sales

import (
	"context"
	"errors"
	"time"

	tillapp "github.com/glowpos/backend/internal/application/till"
	"github.com/glowpos/backend/internal/domain/catalog"
	"github.com/glowpos/backend/internal/domain/sales"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order business operations
type OrderService struct {
	orderRepo      sales.OrderRepository
	productRepo    catalog.ProductRepository
	sessionRepo    till.SessionRepository
	checkout       sales.CheckoutScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService. A nil checkout scope runs
// completion writes without a shared transaction.
func NewOrderService(
	orderRepo sales.OrderRepository,
	productRepo catalog.ProductRepository,
	sessionRepo till.SessionRepository,
	checkout sales.CheckoutScope,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if checkout == nil {
		checkout = NewNoOpCheckoutScope(orderRepo, sessionRepo)
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		sessionRepo: sessionRepo,
		checkout:    checkout,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create rings up a pending order. A linked till session must be active.
func (s *OrderService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	employeeID := req.EmployeeID
	if employeeID == uuid.Nil {
		employeeID = actorID
	}

	if req.TillSessionID != nil {
		session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, *req.TillSessionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Till session not found")
			}
			return nil, err
		}
		if !session.IsActive() {
			return nil, shared.NewDomainError("SESSION_NOT_ACTIVE", "Till session is closed")
		}
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(tenantID, orderNumber, req.StoreID, employeeID, req.TillSessionID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, item.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Product not found: "+item.ProductID.String())
			}
			return nil, err
		}
		if !product.IsActive {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not for sale: "+product.Name)
		}
		price := product.Price
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		if err := order.AddItem(product.ID, product.Name, item.Quantity, price); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// Complete takes payment and posts the tender split to the linked till
// session in the same transaction. If the session is no longer active the
// order stays pending and SESSION_NOT_ACTIVE is returned.
func (s *OrderService) Complete(ctx context.Context, tenantID, orderID uuid.UUID, req CompleteOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Complete(req.PaymentMethod, req.CashAmount); err != nil {
		return nil, err
	}

	err = s.checkout.Execute(ctx, func(repos sales.CheckoutRepositories) error {
		if err := repos.Orders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if order.TillSessionID == nil || !order.TotalAmount.IsPositive() {
			return nil
		}
		_, err := tillapp.ApplySale(ctx, repos.Sessions(), tenantID, *order.TillSessionID, order.CashAmount, order.CardAmount)
		return err
	})
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("order completion rolled back",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("order completed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)

	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel voids a pending order
func (s *OrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publish(ctx context.Context, order *sales.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
