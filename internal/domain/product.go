package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint64          `json:"product_id" gorm:"column:product_id;primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return checkMoney("price", p.Price)
}

// ProductPatch is a sparse update of a Product. A present null description
// clears it in explicit mode.
type ProductPatch struct {
	Name        Optional[string]          `json:"name,omitzero"`
	Description Optional[*string]         `json:"description,omitzero"`
	Price       Optional[decimal.Decimal] `json:"price,omitzero"`
}

func (p ProductPatch) Apply(prod *Product, mode UpdateMode) (bool, error) {
	next := *prod
	if mode.takes(p.Name.Present, p.Name.Value == "") {
		next.Name = p.Name.Value
	}
	desc := p.Description.Value
	if mode.takes(p.Description.Present, desc == nil || *desc == "") {
		next.Description = desc
	}
	if mode.takes(p.Price.Present, p.Price.Value.IsZero()) {
		next.Price = p.Price.Value
	}
	if err := next.Validate(); err != nil {
		return false, err
	}
	changed := next.Name != prod.Name ||
		!sameString(next.Description, prod.Description) ||
		!next.Price.Equal(prod.Price)
	*prod = next
	return changed, nil
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkMoney enforces a non-negative amount with at most cent precision.
func checkMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s must be non-negative", ErrConstraint, field)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrValidation, field)
	}
	return nil
}
