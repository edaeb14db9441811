package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KLR136/Controle-API/logging"
	"github.com/KLR136/Controle-API/middleware"
	"github.com/KLR136/Controle-API/models"
	"github.com/KLR136/Controle-API/store"
)

type PlaceOrderInput struct {
	ShippingAddress string `json:"shipping_address"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// POST /orders
func PlaceOrderHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := st.PlaceOrder(c.Request.Context(), userID, input.ShippingAddress)
		if err != nil {
			var short *store.InsufficientStockError
			switch {
			case errors.Is(err, store.ErrMissingShippingAddress):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Shipping address is required"})
			case errors.Is(err, store.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			case errors.Is(err, store.ErrProductUnavailable):
				c.JSON(http.StatusConflict, gin.H{"error": "A product in your cart is no longer available"})
			case errors.As(err, &short):
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Some products are out of stock",
					"details": gin.H{"stock_errors": short.Shorts},
				})
			default:
				// storage faults are reported without internals
				logging.From(c).Error("place order", "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error during order creation"})
			}
			return
		}

		broadcastOrderEvent("order_placed", order)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order created successfully",
			"data": gin.H{
				"order_id":     order.ID,
				"order_ref":    order.OrderRef,
				"total_amount": order.TotalAmount,
			},
		})
	}
}

// GET /orders
func GetUserOrdersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page := intQuery(c, "page", 1)
		limit := intQuery(c, "limit", 10)

		orders, total, err := st.Orders.FindByUser(c.Request.Context(), userID, page, limit)
		if err != nil {
			logging.From(c).Error("list user orders", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders":     orders,
			"pagination": pagination(page, limit, total),
		})
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, err := parseID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		order, err := st.Orders.FindByID(c.Request.Context(), id, userID)
		if store.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			logging.From(c).Error("get order", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.ListFilter{
			Page:  intQuery(c, "page", 1),
			Limit: intQuery(c, "limit", 10),
		}
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
				return
			}
			filter.Status = status
		}
		if from, ok := timeQuery(c, "start_date"); ok {
			filter.From = &from
		}
		if to, ok := timeQuery(c, "end_date"); ok {
			filter.To = &to
		}

		orders, total, err := st.Orders.List(c.Request.Context(), filter)
		if err != nil {
			logging.From(c).Error("list orders", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders":     orders,
			"pagination": pagination(filter.Page, filter.Limit, total),
		})
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		status, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err = st.Orders.UpdateStatus(c.Request.Context(), id, status)
		switch {
		case store.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case err != nil:
			logging.From(c).Error("update order status", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		default:
			if order, err := st.Orders.FindByID(c.Request.Context(), id, ""); err == nil {
				broadcastOrderEvent("order_status_changed", order)
			}
			c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
		}
	}
}

// GET /admin/orders/stats
func OrderStatsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := st.Orders.Stats(c.Request.Context())
		if err != nil {
			logging.From(c).Error("order stats", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// GET /admin/orders/top-products
func TopProductsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sales, err := st.Orders.TopProducts(c.Request.Context(), intQuery(c, "limit", 5))
		if err != nil {
			logging.From(c).Error("top products", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": sales})
	}
}

func pagination(page, limit int, total int64) gin.H {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return gin.H{
		"current":     page,
		"total":       pages,
		"limit":       limit,
		"total_items": total,
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	s := c.Query(name)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}
