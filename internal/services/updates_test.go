package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/domain"
)

func TestShopService_UpdateProductPriceToZero(t *testing.T) {
	tests := []struct {
		name      string
		mode      domain.UpdateMode
		wantPrice string
	}{
		{name: "legacy keeps the stored price", mode: domain.UpdateLegacy, wantPrice: "5.00"},
		{name: "explicit clears to zero", mode: domain.UpdateExplicit, wantPrice: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t, Options{UpdateMode: tt.mode})
			f := seed(t, s)
			ctx := context.Background()

			updated, err := s.UpdateProduct(ctx, f.product.ID, domain.ProductPatch{Price: domain.Some(decimal.Zero)})
			require.NoError(t, err)
			assert.True(t, updated.Price.Equal(money(tt.wantPrice)), "price %s", updated.Price)

			stored, err := s.GetProduct(ctx, f.product.ID)
			require.NoError(t, err)
			assert.True(t, stored.Price.Equal(money(tt.wantPrice)), "stored price %s", stored.Price)
		})
	}
}

func TestShopService_EmptyUpdateIsNoop(t *testing.T) {
	for _, mode := range []domain.UpdateMode{domain.UpdateLegacy, domain.UpdateExplicit} {
		t.Run(mode.String(), func(t *testing.T) {
			s, _ := newTestService(t, Options{UpdateMode: mode})
			f := seed(t, s)
			ctx := context.Background()
			item, err := s.CreateOrderItem(ctx, f.order.ID, f.product.ID, 2)
			require.NoError(t, err)

			u, err := s.UpdateUser(ctx, f.user.ID, domain.UserPatch{})
			require.NoError(t, err)
			assert.Equal(t, f.user, u)

			p, err := s.UpdateProduct(ctx, f.product.ID, domain.ProductPatch{})
			require.NoError(t, err)
			assert.Equal(t, f.product.Name, p.Name)
			assert.Equal(t, *f.product.Description, *p.Description)
			assert.True(t, f.product.Price.Equal(p.Price))

			o, err := s.UpdateOrder(ctx, f.order.ID, domain.OrderPatch{})
			require.NoError(t, err)
			assert.True(t, f.order.TotalAmount.Equal(o.TotalAmount))

			i, err := s.UpdateOrderItem(ctx, f.order.ID, item.ID, domain.OrderItemPatch{})
			require.NoError(t, err)
			assert.Equal(t, item, i)
		})
	}
}

func TestShopService_OmittedFieldsAreRetained(t *testing.T) {
	s, _ := newTestService(t, Options{UpdateMode: domain.UpdateExplicit})
	f := seed(t, s)
	ctx := context.Background()

	u, err := s.UpdateUser(ctx, f.user.ID, domain.UserPatch{Email: domain.Some("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, TestUsername, u.Username)
	assert.Equal(t, "new@example.com", u.Email)

	p, err := s.UpdateProduct(ctx, f.product.ID, domain.ProductPatch{Name: domain.Some("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, "first product", *p.Description)
	assert.True(t, p.Price.Equal(money("5.00")))

	stored, err := s.GetUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, TestUsername, stored.Username)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestShopService_RejectedUpdateLeavesRowUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		mode    domain.UpdateMode
		patch   domain.OrderItemPatch
		wantErr error
		wantQty int
	}{
		{name: "legacy ignores zero", mode: domain.UpdateLegacy, patch: domain.OrderItemPatch{Quantity: domain.Some(0)}, wantQty: 2},
		{name: "legacy rejects negative", mode: domain.UpdateLegacy, patch: domain.OrderItemPatch{Quantity: domain.Some(-1)}, wantErr: domain.ErrConstraint, wantQty: 2},
		{name: "explicit rejects zero", mode: domain.UpdateExplicit, patch: domain.OrderItemPatch{Quantity: domain.Some(0)}, wantErr: domain.ErrConstraint, wantQty: 2},
		{name: "explicit applies positive", mode: domain.UpdateExplicit, patch: domain.OrderItemPatch{Quantity: domain.Some(5)}, wantQty: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t, Options{UpdateMode: tt.mode})
			f := seed(t, s)
			ctx := context.Background()
			item, err := s.CreateOrderItem(ctx, f.order.ID, f.product.ID, 2)
			require.NoError(t, err)

			_, err = s.UpdateOrderItem(ctx, f.order.ID, item.ID, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			got, err := s.GetOrderItem(ctx, f.order.ID, item.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, got.Quantity)
		})
	}
}

func TestShopService_UpdateMissingIsNotFound(t *testing.T) {
	s, _ := newTestService(t, Options{})
	ctx := context.Background()

	_, err := s.UpdateUser(ctx, 42, domain.UserPatch{Username: domain.Some("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateProduct(ctx, 42, domain.ProductPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateOrder(ctx, 42, domain.OrderPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateOrderItem(ctx, 1, 42, domain.OrderItemPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
