package handler

import (
	"github.com/gin-gonic/gin"
	tillapp "github.com/glowpos/backend/internal/application/till"
	"github.com/glowpos/backend/internal/domain/shared"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// TillHandler serves till sessions and their cash operations
type TillHandler struct {
	BaseHandler
	service *tillapp.SessionService
}

// NewTillHandler creates a new TillHandler
func NewTillHandler(service *tillapp.SessionService) *TillHandler {
	return &TillHandler{service: service}
}

// OpenSession godoc
// @ID           openTillSession
// @Summary      Open a till session
// @Tags         till
// @Accept       json
// @Produce      json
// @Param        request body tillapp.OpenSessionRequest true "Session to open"
// @Success      201 {object} APIResponse[tillapp.SessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions [post]
func (h *TillHandler) OpenSession(c *gin.Context) {
	var req tillapp.OpenSessionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	session, err := h.service.OpenSession(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// ListSessions godoc
// @ID           listTillSessions
// @Summary      List till sessions
// @Tags         till
// @Produce      json
// @Param        store_id query string false "Store"
// @Param        employee_id query string false "Employee"
// @Param        status query string false "active or closed"
// @Success      200 {object} APIResponse[[]tillapp.SessionResponse]
// @Security     BearerAuth
// @Router       /till/sessions [get]
func (h *TillHandler) ListSessions(c *gin.Context) {
	var filter tillapp.SessionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	sessions, total, err := h.service.ListSessions(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, sessions, total, page, pageSize)
}

// GetActiveSession godoc
// @ID           getActiveTillSession
// @Summary      Get the active session of an employee at a store
// @Description  employee_id defaults to the signed-in employee
// @Tags         till
// @Produce      json
// @Param        store_id query string true "Store"
// @Param        employee_id query string false "Employee"
// @Success      200 {object} APIResponse[tillapp.SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions/active [get]
func (h *TillHandler) GetActiveSession(c *gin.Context) {
	storeID, ok := h.uuidQuery(c, "store_id", uuid.Nil)
	if !ok {
		return
	}
	if storeID == uuid.Nil {
		h.BadRequest(c, "store_id is required")
		return
	}
	employeeID, ok := h.uuidQuery(c, "employee_id", middleware.GetUserID(c))
	if !ok {
		return
	}

	session, err := h.service.GetActiveSession(c.Request.Context(), middleware.GetTenantID(c), storeID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// GetSession godoc
// @ID           getTillSession
// @Summary      Get a till session
// @Tags         till
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} APIResponse[tillapp.SessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions/{id} [get]
func (h *TillHandler) GetSession(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), middleware.GetTenantID(c), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// ListOperations godoc
// @ID           listTillOperations
// @Summary      List the cash operations of a session, oldest first
// @Tags         till
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} APIResponse[[]tillapp.OperationResponse]
// @Security     BearerAuth
// @Router       /till/sessions/{id}/operations [get]
func (h *TillHandler) ListOperations(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	ops, err := h.service.ListOperations(c.Request.Context(), middleware.GetTenantID(c), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ops)
}

// RecordCashDrop godoc
// @ID           recordTillCashDrop
// @Summary      Move cash from the drawer to the safe
// @Tags         till
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body tillapp.CashAmountRequest true "Drop amount"
// @Success      201 {object} APIResponse[tillapp.SessionOperationResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions/{id}/cash-drops [post]
func (h *TillHandler) RecordCashDrop(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req tillapp.CashAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordCashDrop(c.Request.Context(), middleware.GetTenantID(c), actorID, sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordTillCount godoc
// @ID           recordTillCount
// @Summary      Count the drawer mid-session
// @Description  The response carries the expected cash, the variance and whether it exceeds the threshold
// @Tags         till
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body tillapp.CashAmountRequest true "Counted amount"
// @Success      201 {object} APIResponse[tillapp.TillCountResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions/{id}/counts [post]
func (h *TillHandler) RecordTillCount(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req tillapp.CashAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordTillCount(c.Request.Context(), middleware.GetTenantID(c), actorID, sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordNoSale godoc
// @ID           recordTillNoSale
// @Summary      Log a drawer opening without a sale
// @Tags         till
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body tillapp.NoSaleRequest false "Notes"
// @Success      201 {object} APIResponse[tillapp.OperationResponse]
// @Security     BearerAuth
// @Router       /till/sessions/{id}/no-sale [post]
func (h *TillHandler) RecordNoSale(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req tillapp.NoSaleRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.RecordNoSale(c.Request.Context(), middleware.GetTenantID(c), actorID, sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CloseSession godoc
// @ID           closeTillSession
// @Summary      Close a till session with the final drawer count
// @Tags         till
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body tillapp.CashAmountRequest true "Closing cash"
// @Success      200 {object} APIResponse[tillapp.SessionOperationResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /till/sessions/{id}/close [post]
func (h *TillHandler) CloseSession(c *gin.Context) {
	sessionID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req tillapp.CashAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CloseSession(c.Request.Context(), middleware.GetTenantID(c), actorID, sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// pageOf applies the list defaults to the requested page
func pageOf(page, pageSize int) (int, int) {
	defaults := shared.DefaultFilter()
	if page <= 0 {
		page = defaults.Page
	}
	if pageSize <= 0 {
		pageSize = defaults.PageSize
	}
	return page, pageSize
}
