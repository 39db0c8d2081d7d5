package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/retail-pos/internal/invoice/domain"
	"github.com/ridloal/retail-pos/internal/invoice/service"
	"github.com/ridloal/retail-pos/internal/platform/httpapi"
	"github.com/ridloal/retail-pos/internal/platform/middleware"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(is service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoiceRoutes := router.Group("/invoices")
	{
		invoiceRoutes.GET("", h.ListInvoices)
		invoiceRoutes.POST("", h.CreateInvoice)
		invoiceRoutes.GET("/:id", h.GetInvoice)
	}
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	q := domain.ListQuery{
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		CustomerPhone: c.Query("customerPhone"),
	}
	var err error
	if q.Limit, q.Offset, err = httpapi.ParsePage(c, defaultListLimit, maxListLimit); err != nil {
		httpapi.WriteError(c, "ListInvoices", err)
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), q)
	if err != nil {
		httpapi.WriteError(c, "ListInvoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req domain.CreateInvoiceRequest
	if err := httpapi.BindJSON(c, &req); err != nil {
		httpapi.WriteError(c, "CreateInvoice", err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, middleware.UserIDFrom(c))
	if err != nil {
		httpapi.WriteError(c, "CreateInvoice", err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := httpapi.ParseID(c, "id")
	if err != nil {
		httpapi.WriteError(c, "GetInvoice", err)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		httpapi.WriteError(c, "GetInvoice", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}
