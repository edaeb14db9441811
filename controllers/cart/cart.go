package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/KLR136/Controle-API/logging"
	"github.com/KLR136/Controle-API/middleware"
	"github.com/KLR136/Controle-API/store"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /user/cart
func GetUserCart(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cart, err := st.Carts.GetOrCreateActive(c.Request.Context(), userID)
		if err != nil {
			logging.From(c).Error("get cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		lines, err := st.Carts.Snapshot(c.Request.Context(), cart.ID)
		if err != nil {
			logging.From(c).Error("snapshot cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		totalItems := 0
		totalAmount := decimal.Zero
		for _, l := range lines {
			totalItems += l.Quantity
			totalAmount = totalAmount.Add(l.Subtotal)
		}
		c.JSON(http.StatusOK, gin.H{
			"cart_id": cart.ID,
			"items":   lines,
			"summary": gin.H{
				"total_items":  totalItems,
				"total_amount": totalAmount,
			},
		})
	}
}

// POST /user/cart/items
func AddCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := st.Carts.GetOrCreateActive(c.Request.Context(), userID)
		if err != nil {
			logging.From(c).Error("get cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		err = st.Carts.AddItem(c.Request.Context(), cart.ID, input.ProductID, input.Quantity)
		switch {
		case errors.Is(err, store.ErrProductUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist or is inactive"})
		case errors.Is(err, store.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		case err != nil:
			logging.From(c).Error("add cart item", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		default:
			c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
		}
	}
}

// PUT /user/cart/items/:product_id
func UpdateCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := st.Carts.GetOrCreateActive(c.Request.Context(), userID)
		if err != nil {
			logging.From(c).Error("get cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		err = st.Carts.SetItemQuantity(c.Request.Context(), cart.ID, productID, input.Quantity)
		switch {
		case store.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		case errors.Is(err, store.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		case err != nil:
			logging.From(c).Error("update cart item", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
		}
	}
}

// DELETE /user/cart/items/:product_id
func DeleteCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		cart, err := st.Carts.GetOrCreateActive(c.Request.Context(), userID)
		if err != nil {
			logging.From(c).Error("get cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		err = st.Carts.RemoveItem(c.Request.Context(), cart.ID, productID)
		switch {
		case store.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		case err != nil:
			logging.From(c).Error("delete cart item", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
		}
	}
}

// DELETE /user/cart
func ClearUserCart(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cart, err := st.Carts.GetOrCreateActive(c.Request.Context(), userID)
		if err != nil {
			logging.From(c).Error("get cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if err := st.Carts.Clear(c.Request.Context(), cart.ID); err != nil {
			logging.From(c).Error("clear cart", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}
