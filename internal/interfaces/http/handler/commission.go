package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	commissionapp "github.com/glowpos/backend/internal/application/commission"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// CommissionHandler serves commission tiers, calculations and performance
type CommissionHandler struct {
	BaseHandler
	service *commissionapp.Service
	now     func() time.Time
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(service *commissionapp.Service) *CommissionHandler {
	return &CommissionHandler{service: service, now: time.Now}
}

// CreateTier godoc
// @ID           createCommissionTier
// @Summary      Add a tier to a role's ladder
// @Tags         commission
// @Accept       json
// @Produce      json
// @Param        request body commissionapp.CreateTierRequest true "Tier"
// @Success      201 {object} APIResponse[commissionapp.TierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission/tiers [post]
func (h *CommissionHandler) CreateTier(c *gin.Context) {
	var req commissionapp.CreateTierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tier, err := h.service.CreateTier(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tier)
}

// ListTiers godoc
// @ID           listCommissionTiers
// @Summary      List active tiers
// @Tags         commission
// @Produce      json
// @Success      200 {object} APIResponse[[]commissionapp.TierResponse]
// @Security     BearerAuth
// @Router       /commission/tiers [get]
func (h *CommissionHandler) ListTiers(c *gin.Context) {
	tiers, err := h.service.ListTiers(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tiers)
}

// DeleteTier godoc
// @ID           deleteCommissionTier
// @Summary      Remove a tier
// @Tags         commission
// @Param        id path string true "Tier ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission/tiers/{id} [delete]
func (h *CommissionHandler) DeleteTier(c *gin.Context) {
	tierID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTier(c.Request.Context(), middleware.GetTenantID(c), tierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ResolveTier godoc
// @ID           resolveCommissionTier
// @Summary      Place a sales amount on a role's ladder
// @Tags         commission
// @Produce      json
// @Param        sales_amount query string true "Sales amount"
// @Param        role_type query string false "Role, defaults to the configured role"
// @Success      200 {object} APIResponse[commissionapp.TierProgressResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission/tiers/resolve [get]
func (h *CommissionHandler) ResolveTier(c *gin.Context) {
	amount, err := decimal.NewFromString(c.DefaultQuery("sales_amount", "0"))
	if err != nil {
		h.BadRequest(c, "sales_amount must be a number")
		return
	}

	progress, err := h.service.ResolveTier(c.Request.Context(), middleware.GetTenantID(c), commissionapp.ResolveTierQuery{
		SalesAmount: amount,
		RoleType:    c.Query("role_type"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// RunBatch godoc
// @ID           runCommissionBatch
// @Summary      Calculate commissions for the period ending now
// @Tags         commission
// @Accept       json
// @Produce      json
// @Param        request body commissionapp.RunBatchRequest true "Period"
// @Success      200 {object} APIResponse[commissionapp.BatchResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission/calculations/run [post]
func (h *CommissionHandler) RunBatch(c *gin.Context) {
	var req commissionapp.RunBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.RunBatchCalculation(c.Request.Context(), middleware.GetTenantID(c), req.PeriodType, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListCalculations godoc
// @ID           listCommissionCalculations
// @Summary      List commission calculations
// @Tags         commission
// @Produce      json
// @Param        period_type query string false "daily, weekly, monthly or yearly"
// @Param        is_paid query bool false "Payment state"
// @Success      200 {object} APIResponse[[]commissionapp.CalculationResponse]
// @Security     BearerAuth
// @Router       /commission/calculations [get]
func (h *CommissionHandler) ListCalculations(c *gin.Context) {
	var filter commissionapp.CalculationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	calcs, total, err := h.service.ListCalculations(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, calcs, total, page, pageSize)
}

// MarkPaid godoc
// @ID           payCommissionCalculation
// @Summary      Mark a calculation as paid
// @Description  Paying an already paid calculation returns it unchanged
// @Tags         commission
// @Produce      json
// @Param        id path string true "Calculation ID"
// @Success      200 {object} APIResponse[commissionapp.CalculationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /commission/calculations/{id}/pay [post]
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	calcID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	calc, err := h.service.MarkPaid(c.Request.Context(), middleware.GetTenantID(c), calcID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, calc)
}

// GetPerformance godoc
// @ID           getCommissionPerformance
// @Summary      Sales and commission metrics of an employee
// @Tags         commission
// @Produce      json
// @Param        employee_id path string true "Employee ID"
// @Success      200 {object} APIResponse[commissionapp.PerformanceResponse]
// @Security     BearerAuth
// @Router       /commission/performance/{employee_id} [get]
func (h *CommissionHandler) GetPerformance(c *gin.Context) {
	employeeID, ok := h.uuidParam(c, "employee_id")
	if !ok {
		return
	}

	perf, err := h.service.GetPerformance(c.Request.Context(), middleware.GetTenantID(c), employeeID, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perf)
}

// GetCommissionRate godoc
// @ID           getCommissionRate
// @Summary      Current commission rate of an employee
// @Tags         commission
// @Produce      json
// @Param        employee_id path string true "Employee ID"
// @Success      200 {object} APIResponse[commissionapp.CommissionRateResponse]
// @Security     BearerAuth
// @Router       /commission/rate/{employee_id} [get]
func (h *CommissionHandler) GetCommissionRate(c *gin.Context) {
	employeeID, ok := h.uuidParam(c, "employee_id")
	if !ok {
		return
	}

	rate, err := h.service.GetCommissionRate(c.Request.Context(), middleware.GetTenantID(c), employeeID, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}
