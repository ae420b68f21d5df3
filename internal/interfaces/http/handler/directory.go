package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/glowpos/backend/internal/application/catalog"
	identityapp "github.com/glowpos/backend/internal/application/identity"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
)

// DirectoryHandler serves staff, catalog and the signed-in user's context
type DirectoryHandler struct {
	BaseHandler
	employees *identityapp.EmployeeService
	products  *catalogapp.ProductService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(employees *identityapp.EmployeeService, products *catalogapp.ProductService) *DirectoryHandler {
	return &DirectoryHandler{employees: employees, products: products}
}

// GetMyContext godoc
// @ID           getMyContext
// @Summary      Business context of the signed-in employee
// @Tags         directory
// @Produce      json
// @Success      200 {object} APIResponse[identity.BusinessContext]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me/context [get]
func (h *DirectoryHandler) GetMyContext(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	bc, err := h.employees.GetContext(c.Request.Context(), middleware.GetTenantID(c), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bc)
}

// CreateEmployee godoc
// @ID           createEmployee
// @Summary      Register a staff member
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateEmployeeRequest true "Employee"
// @Success      201 {object} APIResponse[identityapp.EmployeeResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/employees [post]
func (h *DirectoryHandler) CreateEmployee(c *gin.Context) {
	var req identityapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	emp, err := h.employees.Create(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, emp)
}

// ListEmployees godoc
// @ID           listEmployees
// @Summary      List staff
// @Tags         directory
// @Produce      json
// @Param        store_id query string false "Store"
// @Success      200 {object} APIResponse[[]identityapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /staff/employees [get]
func (h *DirectoryHandler) ListEmployees(c *gin.Context) {
	var filter identityapp.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	emps, total, err := h.employees.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, emps, total, page, pageSize)
}

// GetEmployee godoc
// @ID           getEmployee
// @Summary      Get a staff member
// @Tags         directory
// @Produce      json
// @Param        id path string true "Employee ID"
// @Success      200 {object} APIResponse[identityapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/employees/{id} [get]
func (h *DirectoryHandler) GetEmployee(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	emp, err := h.employees.GetByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// UpdateEmployee godoc
// @ID           updateEmployee
// @Summary      Change a staff member's profile
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID"
// @Param        request body identityapp.UpdateEmployeeRequest true "Changes"
// @Success      200 {object} APIResponse[identityapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/employees/{id} [put]
func (h *DirectoryHandler) UpdateEmployee(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	emp, err := h.employees.Update(c.Request.Context(), middleware.GetTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, emp)
}

// CreateProduct godoc
// @ID           createProduct
// @Summary      Add a product to the catalog
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *DirectoryHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List the catalog
// @Tags         directory
// @Produce      json
// @Param        search query string false "Name or SKU fragment"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *DirectoryHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, total, err := h.products.List(c.Request.Context(), middleware.GetTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         directory
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *DirectoryHandler) GetProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateProduct godoc
// @ID           updateProduct
// @Summary      Change a product
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *DirectoryHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), middleware.GetTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
