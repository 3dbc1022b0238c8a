package http

import "github.com/shopspring/decimal"

type CreateUserRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required"`
	PasswordHash string `json:"password_hash" binding:"required"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
}

type CreateOrderRequest struct {
	UserID      uint64           `json:"user_id" binding:"required"`
	TotalAmount *decimal.Decimal `json:"total_amount" binding:"required"`
}

// CreateOrderItemRequest carries no order id; it comes from the path.
type CreateOrderItemRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}
