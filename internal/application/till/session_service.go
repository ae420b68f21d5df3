// Package till implements the till session use cases: opening a drawer,
// recording drawer activity and settling it at the end of a shift.
package till

import (
	"context"
	"errors"

	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/domain/till"
	"github.com/glowpos/backend/internal/infrastructure/logger"
	"github.com/glowpos/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SessionService handles till session operations
type SessionService struct {
	repo              till.SessionRepository
	eventPublisher    shared.EventPublisher
	varianceThreshold decimal.Decimal
	logger            *zap.Logger
}

// NewSessionService creates a new SessionService. A zero threshold falls
// back to till.DefaultVarianceThreshold.
func NewSessionService(repo till.SessionRepository, varianceThreshold decimal.Decimal, logger *zap.Logger) *SessionService {
	if varianceThreshold.IsZero() {
		varianceThreshold = till.DefaultVarianceThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:              repo,
		varianceThreshold: varianceThreshold,
		logger:            logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// OpenSession opens a drawer. EmployeeID defaults to the acting employee.
func (s *SessionService) OpenSession(ctx context.Context, tenantID, actorID uuid.UUID, req OpenSessionRequest) (*SessionResponse, error) {
	employeeID := req.EmployeeID
	if employeeID == uuid.Nil {
		employeeID = actorID
	}

	existing, err := s.repo.FindActive(ctx, tenantID, req.StoreID, employeeID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, till.ErrSessionAlreadyActive
	}

	session, op, err := till.OpenSession(tenantID, req.StoreID, employeeID, req.OpeningCash, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session, op); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("till session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("store_id", session.StoreID.String()),
		zap.String("employee_id", session.EmployeeID.String()),
		zap.String("opening_cash", session.OpeningCash.StringFixed(2)),
	)

	s.publish(ctx, session)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// RecordCashDrop moves cash from the drawer to the safe
func (s *SessionService) RecordCashDrop(ctx context.Context, tenantID, actorID, sessionID uuid.UUID, req CashAmountRequest) (*SessionOperationResponse, error) {
	session, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	op, err := session.RecordCashDrop(req.Amount, actorID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, session, op); err != nil {
		return nil, err
	}

	s.publish(ctx, session)

	return &SessionOperationResponse{
		Session:   ToSessionResponse(session),
		Operation: ToOperationResponse(op),
	}, nil
}

// RecordTillCount compares a physical count with the expected drawer cash.
// A variance above the threshold is reported, never rejected.
func (s *SessionService) RecordTillCount(ctx context.Context, tenantID, actorID, sessionID uuid.UUID, req CashAmountRequest) (*TillCountResponse, error) {
	session, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	count, err := session.RecordTillCount(req.Amount, s.varianceThreshold, actorID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AppendOperation(ctx, session, count.Operation); err != nil {
		return nil, err
	}

	if count.VarianceDetected {
		logger.Enrich(ctx, s.logger).Warn("till count variance detected",
			zap.String("session_id", session.ID.String()),
			zap.String("expected_cash", count.ExpectedCash.StringFixed(2)),
			zap.String("counted", req.Amount.StringFixed(2)),
			zap.String("variance", count.Variance.StringFixed(2)),
		)
	}

	s.publish(ctx, session)

	return &TillCountResponse{
		Operation:        ToOperationResponse(count.Operation),
		ExpectedCash:     count.ExpectedCash,
		Variance:         count.Variance,
		VarianceDetected: count.VarianceDetected,
	}, nil
}

// RecordNoSale logs a drawer opening that carried no sale
func (s *SessionService) RecordNoSale(ctx context.Context, tenantID, actorID, sessionID uuid.UUID, req NoSaleRequest) (*OperationResponse, error) {
	session, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	op, err := session.RecordNoSale(actorID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AppendOperation(ctx, session, op); err != nil {
		return nil, err
	}

	resp := ToOperationResponse(op)
	return &resp, nil
}

// CloseSession settles the drawer and freezes the session
func (s *SessionService) CloseSession(ctx context.Context, tenantID, actorID, sessionID uuid.UUID, req CashAmountRequest) (resp *SessionOperationResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "till.close_session",
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrSessionID.String(sessionID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	session, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	op, err := session.Close(req.Amount, actorID, req.Notes)
	if err != nil {
		return nil, err
	}
	if err = s.repo.SaveWithLock(ctx, session, op); err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("till session closed",
		zap.String("session_id", session.ID.String()),
		zap.String("expected_cash", session.ExpectedCash().StringFixed(2)),
		zap.String("closing_cash", req.Amount.StringFixed(2)),
		zap.String("cash_variance", session.CashVariance.StringFixed(2)),
	)

	s.publish(ctx, session)

	return &SessionOperationResponse{
		Session:   ToSessionResponse(session),
		Operation: ToOperationResponse(op),
	}, nil
}

// GetSession returns one session
func (s *SessionService) GetSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// GetActiveSession returns the employee's active session at the store
func (s *SessionService) GetActiveSession(ctx context.Context, tenantID, storeID, employeeID uuid.UUID) (*SessionResponse, error) {
	session, err := s.repo.FindActive(ctx, tenantID, storeID, employeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "No active till session")
		}
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// ListSessions lists sessions for a tenant
func (s *SessionService) ListSessions(ctx context.Context, tenantID uuid.UUID, filter SessionListFilter) ([]SessionResponse, int64, error) {
	sessions, total, err := s.repo.FindAllForTenant(ctx, tenantID, filter.toDomain())
	if err != nil {
		return nil, 0, err
	}
	return ToSessionResponses(sessions), total, nil
}

// ListOperations returns a session's drawer log, oldest first
func (s *SessionService) ListOperations(ctx context.Context, tenantID, sessionID uuid.UUID) ([]OperationResponse, error) {
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}
	ops, err := s.repo.ListOperations(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]OperationResponse, 0, len(ops))
	for i := range ops {
		out = append(out, ToOperationResponse(&ops[i]))
	}
	return out, nil
}

// publish sends and clears the session's pending events. Delivery failures
// are logged; the write has already committed.
func (s *SessionService) publish(ctx context.Context, session *till.TillSession) {
	events := session.GetDomainEvents()
	session.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish till events",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}
}
