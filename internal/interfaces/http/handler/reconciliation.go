package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	reconapp "github.com/glowpos/backend/internal/application/reconciliation"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// ReconciliationHandler serves daily reconciliation reports
type ReconciliationHandler struct {
	BaseHandler
	service *reconapp.ReportService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *reconapp.ReportService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Preview godoc
// @ID           previewReconciliationReport
// @Summary      Build a report for a store and day without saving it
// @Tags         reconciliation
// @Produce      json
// @Param        store_id query string true "Store"
// @Param        date query string true "Day as YYYY-MM-DD"
// @Success      200 {object} APIResponse[reconapp.ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/preview [get]
func (h *ReconciliationHandler) Preview(c *gin.Context) {
	storeID, ok := h.uuidQuery(c, "store_id", uuid.Nil)
	if !ok {
		return
	}
	if storeID == uuid.Nil {
		h.BadRequest(c, "store_id is required")
		return
	}
	date := c.Query("date")
	if _, err := time.Parse(reconapp.DateLayout, date); err != nil {
		h.BadRequest(c, "date must be formatted as YYYY-MM-DD")
		return
	}

	report, err := h.service.Generate(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), storeID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Save godoc
// @ID           saveReconciliationReport
// @Summary      Build and store a report snapshot
// @Tags         reconciliation
// @Accept       json
// @Produce      json
// @Param        request body reconapp.SaveReportRequest true "Report"
// @Success      201 {object} APIResponse[reconapp.ReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/reports [post]
func (h *ReconciliationHandler) Save(c *gin.Context) {
	var req reconapp.SaveReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.service.Save(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, report)
}

// List godoc
// @ID           listReconciliationReports
// @Summary      List saved reports
// @Tags         reconciliation
// @Produce      json
// @Param        from query string false "First day, YYYY-MM-DD"
// @Param        to query string false "Last day, YYYY-MM-DD"
// @Success      200 {object} APIResponse[[]reconapp.ReportResponse]
// @Security     BearerAuth
// @Router       /reconciliation/reports [get]
func (h *ReconciliationHandler) List(c *gin.Context) {
	var filter reconapp.ReportListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	reports, total, err := h.service.ListReports(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, reports, total, page, pageSize)
}

// GetByID godoc
// @ID           getReconciliationReport
// @Summary      Get a saved report
// @Tags         reconciliation
// @Produce      json
// @Param        id path string true "Report ID"
// @Success      200 {object} APIResponse[reconapp.ReportResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reconciliation/reports/{id} [get]
func (h *ReconciliationHandler) GetByID(c *gin.Context) {
	reportID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), middleware.GetTenantID(c), reportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
