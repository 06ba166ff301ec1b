package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/models"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Invoices *services.InvoiceRenderer
}

func NewOrderController(orders *services.OrderService, invoices *services.InvoiceRenderer) *OrderController {
	return &OrderController{Orders: orders, Invoices: invoices}
}

// CreateOrder -> checkout, boleh guest. customerId hanya diambil dari token customer.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if !bindJSON(c, &in) {
		return
	}

	in.CustomerID = nil
	if userID, role, ok := middlewares.CurrentUser(c); ok && role == utils.RoleCustomer {
		in.CustomerID = &userID
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> admin, ?page=&limit=&status=&customer_id=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	q := services.OrderListQuery{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Status: c.Query("status"),
	}
	if customerID := queryInt(c, "customer_id", 0); customerID > 0 {
		id := uint(customerID)
		q.CustomerID = &id
	}

	page, err := oc.Orders.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", page)
}

// GetMyOrders -> riwayat order customer yang login
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}

	page, err := oc.Orders.ListOrders(c.Request.Context(), services.OrderListQuery{
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 10),
		Status:     c.Query("status"),
		CustomerID: &userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My orders", page)
}

// GetOrderByID -> admin, atau customer pemilik order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, ok := oc.visibleOrder(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> admin
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "order_id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> customer, hanya order pending miliknya
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "order_id")
	if !ok {
		return
	}
	userID, _, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return
	}

	order, err := oc.Orders.CancelOrder(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// DeleteOrder -> admin
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "order_id")
	if !ok {
		return
	}
	if err := oc.Orders.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// DownloadInvoice -> PDF invoice untuk admin atau customer pemilik order
func (oc *OrderController) DownloadInvoice(c *gin.Context) {
	order, ok := oc.visibleOrder(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := oc.Invoices.Render(&buf, order); err != nil {
		utils.RespondInternalError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, order.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// visibleOrder: order guest hanya terlihat oleh admin, order milik customer lain dianggap tidak ada
func (oc *OrderController) visibleOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := parseIDParam(c, "order_id")
	if !ok {
		return nil, false
	}
	userID, role, ok := middlewares.CurrentUser(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, ErrMissingIdentity)
		return nil, false
	}

	order, err := oc.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}

	if role != utils.RoleAdmin && (order.CustomerID == nil || *order.CustomerID != userID) {
		respondServiceError(c, services.ErrOrderNotFound)
		return nil, false
	}
	return order, true
}
