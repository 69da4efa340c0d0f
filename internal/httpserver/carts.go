package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type handlers struct {
	carts    CartService
	products ProductService
	users    UserService
	logger   logrus.FieldLogger
}

type createCartRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// Quantity is not required here; zero and negative values are rejected by
// the cart service with InvalidQuantity.
type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) createCart(c *gin.Context) {
	var req createCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	}
	cart, err := h.carts.CreateCart(c.Request.Context(), strings.TrimSpace(req.UserID))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), c.Param("cartId"), strings.TrimSpace(req.ProductID), req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) updateItemQuantity(c *gin.Context) {
	raw, ok := c.GetQuery("quantity")
	if !ok {
		writeErrorStatus(c, http.StatusBadRequest, "InvalidInput", "quantity query parameter is required")
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "InvalidInput", "quantity must be an integer")
		return
	}
	cart, err := h.carts.UpdateItemQuantity(c.Request.Context(), c.Param("cartId"), c.Param("itemId"), quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) removeItem(c *gin.Context) {
	cart, err := h.carts.RemoveItem(c.Request.Context(), c.Param("cartId"), c.Param("itemId"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
