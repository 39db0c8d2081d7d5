package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/platform/apperror"
	"github.com/ridloal/retail-pos/internal/platform/httpapi"
	"github.com/ridloal/retail-pos/internal/platform/middleware"
	"github.com/ridloal/retail-pos/internal/product/domain"
	"github.com/ridloal/retail-pos/internal/product/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
		productRoutes.GET("/:id/stock-movements", h.ListStockMovements)
	}
}

// DeleteProductResponse is returned by DELETE /products/{id}.
type DeleteProductResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := domain.ListFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	if raw, ok := c.GetQuery("isActive"); ok && raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			httpapi.WriteError(c, "ListProducts", apperror.Validation(apperror.CodeInvalidQuery, "isActive must be true or false"))
			return
		}
		filter.IsActive = &isActive
	}
	var err error
	if filter.Limit, filter.Offset, err = httpapi.ParsePage(c, defaultListLimit, maxListLimit); err != nil {
		httpapi.WriteError(c, "ListProducts", err)
		return
	}

	products, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		httpapi.WriteError(c, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		httpapi.WriteError(c, "CreateProduct", err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, middleware.UserIDFrom(c))
	if err != nil {
		httpapi.WriteError(c, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		httpapi.WriteError(c, "GetProduct", err)
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		httpapi.WriteError(c, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		httpapi.WriteError(c, "UpdateProduct", err)
		return
	}
	var req domain.UpdateProductRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		httpapi.WriteError(c, "UpdateProduct", err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req, middleware.UserIDFrom(c))
	if err != nil {
		httpapi.WriteError(c, "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		httpapi.WriteError(c, "DeleteProduct", err)
		return
	}

	product, err := h.productService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		httpapi.WriteError(c, "DeleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, DeleteProductResponse{Message: "Product deleted successfully", Product: product})
}

func (h *ProductHandler) ListStockMovements(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		httpapi.WriteError(c, "ListStockMovements", err)
		return
	}
	limit, offset, err := httpapi.ParsePage(c, defaultListLimit, maxListLimit)
	if err != nil {
		httpapi.WriteError(c, "ListStockMovements", err)
		return
	}

	movements, err := h.productService.ListStockMovements(c.Request.Context(), id, limit, offset)
	if err != nil {
		httpapi.WriteError(c, "ListStockMovements", err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
