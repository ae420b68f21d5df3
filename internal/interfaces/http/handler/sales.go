package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/glowpos/backend/internal/application/sales"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves checkout orders
type OrderHandler struct {
	BaseHandler
	service *salesapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create godoc
// @ID           createSalesOrder
// @Summary      Ring up an order
// @Description  Prices default to the catalog price. employee_id defaults to the signed-in employee.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[salesapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req salesapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List godoc
// @ID           listSalesOrders
// @Summary      List orders
// @Tags         sales
// @Produce      json
// @Param        status query string false "pending, completed or cancelled"
// @Success      200 {object} APIResponse[[]salesapp.OrderResponse]
// @Security     BearerAuth
// @Router       /sales/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter salesapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID godoc
// @ID           getSalesOrder
// @Summary      Get an order
// @Tags         sales
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[salesapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), middleware.GetTenantID(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Complete godoc
// @ID           completeSalesOrder
// @Summary      Take payment for an order
// @Description  Completing records the sale on the order's till session
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body salesapp.CompleteOrderRequest true "Payment"
// @Success      200 {object} APIResponse[salesapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req salesapp.CompleteOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.service.Complete(c.Request.Context(), middleware.GetTenantID(c), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelSalesOrder
// @Summary      Void a pending order
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body salesapp.CancelOrderRequest true "Reason"
// @Success      200 {object} APIResponse[salesapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req salesapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), middleware.GetTenantID(c), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
