package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop-service/internal/domain"
	"shop-service/internal/services"
)

type Handler struct {
	service  *services.ShopService
	accounts gin.Accounts
}

// NewHandler serves the API behind HTTP basic auth with a single account.
func NewHandler(s *services.ShopService, username, password string) *Handler {
	return &Handler{
		service:  s,
		accounts: gin.Accounts{username: password},
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/", gin.BasicAuth(h.accounts))

	api.POST("/users", h.CreateUser)
	api.GET("/users/:user_id", h.GetUser)
	api.PUT("/users/:user_id", h.UpdateUser)
	api.DELETE("/users/:user_id", h.DeleteUser)

	api.POST("/products", h.CreateProduct)
	api.GET("/products/:product_id", h.GetProduct)
	api.PUT("/products/:product_id", h.UpdateProduct)
	api.DELETE("/products/:product_id", h.DeleteProduct)

	api.POST("/orders", h.CreateOrder)
	api.GET("/orders/:order_id", h.GetOrder)
	api.PUT("/orders/:order_id", h.UpdateOrder)
	api.DELETE("/orders/:order_id", h.DeleteOrder)

	api.POST("/orders/:order_id/items", h.CreateOrderItem)
	api.GET("/orders/:order_id/items/:item_id", h.GetOrderItem)
	api.PUT("/orders/:order_id/items/:item_id", h.UpdateOrderItem)
	api.DELETE("/orders/:order_id/items/:item_id", h.DeleteOrderItem)
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name))
		return 0, false
	}
	return id, true
}

// bindPatch decodes a sparse update. An empty body is an empty patch.
func bindPatch(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return false
	}
	return true
}

func respond[T any](c *gin.Context, status int, v *T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, v)
}

func respondDeleted[T any](c *gin.Context, _ *T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.service.CreateUser(c.Request.Context(), req.Username, req.Email, req.PasswordHash)
	respond(c, http.StatusCreated, u, err)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	u, err := h.service.GetUser(c.Request.Context(), id)
	respond(c, http.StatusOK, u, err)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var patch domain.UserPatch
	if !bindPatch(c, &patch) {
		return
	}
	u, err := h.service.UpdateUser(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, u, err)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	u, err := h.service.DeleteUser(c.Request.Context(), id)
	respondDeleted(c, u, err)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.service.CreateProduct(c.Request.Context(), req.Name, req.Description, *req.Price)
	respond(c, http.StatusCreated, p, err)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	p, err := h.service.GetProduct(c.Request.Context(), id)
	respond(c, http.StatusOK, p, err)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var patch domain.ProductPatch
	if !bindPatch(c, &patch) {
		return
	}
	p, err := h.service.UpdateProduct(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, p, err)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	p, err := h.service.DeleteProduct(c.Request.Context(), id)
	respondDeleted(c, p, err)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o, err := h.service.CreateOrder(c.Request.Context(), req.UserID, *req.TotalAmount)
	respond(c, http.StatusCreated, o, err)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	o, err := h.service.GetOrder(c.Request.Context(), id)
	respond(c, http.StatusOK, o, err)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var patch domain.OrderPatch
	if !bindPatch(c, &patch) {
		return
	}
	o, err := h.service.UpdateOrder(c.Request.Context(), id, patch)
	respond(c, http.StatusOK, o, err)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	o, err := h.service.DeleteOrder(c.Request.Context(), id)
	respondDeleted(c, o, err)
}

func (h *Handler) CreateOrderItem(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}
	var req CreateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.service.CreateOrderItem(c.Request.Context(), orderID, req.ProductID, *req.Quantity)
	respond(c, http.StatusCreated, item, err)
}

func (h *Handler) orderItemPath(c *gin.Context) (orderID, itemID uint64, ok bool) {
	if orderID, ok = pathID(c, "order_id"); !ok {
		return
	}
	itemID, ok = pathID(c, "item_id")
	return
}

func (h *Handler) GetOrderItem(c *gin.Context) {
	orderID, itemID, ok := h.orderItemPath(c)
	if !ok {
		return
	}
	item, err := h.service.GetOrderItem(c.Request.Context(), orderID, itemID)
	respond(c, http.StatusOK, item, err)
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	orderID, itemID, ok := h.orderItemPath(c)
	if !ok {
		return
	}
	var patch domain.OrderItemPatch
	if !bindPatch(c, &patch) {
		return
	}
	item, err := h.service.UpdateOrderItem(c.Request.Context(), orderID, itemID, patch)
	respond(c, http.StatusOK, item, err)
}

func (h *Handler) DeleteOrderItem(c *gin.Context) {
	orderID, itemID, ok := h.orderItemPath(c)
	if !ok {
		return
	}
	item, err := h.service.DeleteOrderItem(c.Request.Context(), orderID, itemID)
	respondDeleted(c, item, err)
}
