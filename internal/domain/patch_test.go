package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProductPatch_Apply(t *testing.T) {
	base := Product{ID: 1, Name: "p1", Description: strPtr("desc"), Price: decimal.RequireFromString("5.00")}

	tests := []struct {
		name        string
		mode        UpdateMode
		patch       ProductPatch
		wantChanged bool
		wantErr     error
		want        Product
	}{
		{
			name:  "empty patch",
			mode:  UpdateLegacy,
			patch: ProductPatch{},
			want:  base,
		},
		{
			name:  "legacy ignores zero price",
			mode:  UpdateLegacy,
			patch: ProductPatch{Price: Some(decimal.Zero)},
			want:  base,
		},
		{
			name:  "legacy ignores empty name and description",
			mode:  UpdateLegacy,
			patch: ProductPatch{Name: Some(""), Description: Some(strPtr(""))},
			want:  base,
		},
		{
			name:        "legacy applies non-zero values",
			mode:        UpdateLegacy,
			patch:       ProductPatch{Name: Some("p2"), Price: Some(decimal.RequireFromString("7.25"))},
			wantChanged: true,
			want:        Product{ID: 1, Name: "p2", Description: strPtr("desc"), Price: decimal.RequireFromString("7.25")},
		},
		{
			name:        "explicit clears price and description",
			mode:        UpdateExplicit,
			patch:       ProductPatch{Price: Some(decimal.Zero), Description: Some[*string](nil)},
			wantChanged: true,
			want:        Product{ID: 1, Name: "p1", Price: decimal.Zero},
		},
		{
			name:    "explicit rejects empty name",
			mode:    UpdateExplicit,
			patch:   ProductPatch{Name: Some("")},
			wantErr: ErrValidation,
			want:    base,
		},
		{
			name:    "negative price rejected in legacy mode",
			mode:    UpdateLegacy,
			patch:   ProductPatch{Price: Some(decimal.RequireFromString("-0.01"))},
			wantErr: ErrConstraint,
			want:    base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			changed, err := tt.patch.Apply(&p, tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.want.Name, p.Name)
			assert.Equal(t, tt.want.Description, p.Description)
			assert.True(t, tt.want.Price.Equal(p.Price), "price %s", p.Price)
		})
	}
}

func TestUserPatch_Apply(t *testing.T) {
	base := User{ID: 1, Username: "u1", Email: "u1@example.com", PasswordHash: "h"}

	u := base
	changed, err := UserPatch{Username: Some(""), Email: Some("")}.Apply(&u, UpdateLegacy)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, base, u)

	u = base
	_, err = UserPatch{Email: Some("")}.Apply(&u, UpdateExplicit)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, base, u)

	u = base
	changed, err = UserPatch{Username: Some("u2")}.Apply(&u, UpdateExplicit)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "u2", u.Username)
	assert.Equal(t, base.Email, u.Email)

	u = base
	changed, err = UserPatch{Username: Some("u1")}.Apply(&u, UpdateLegacy)
	require.NoError(t, err)
	assert.False(t, changed, "same value is not a change")
}

func TestOrderPatch_Apply(t *testing.T) {
	base := Order{ID: 1, UserID: 1, TotalAmount: decimal.RequireFromString("10.00")}

	o := base
	changed, err := OrderPatch{TotalAmount: Some(decimal.Zero)}.Apply(&o, UpdateLegacy)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, o.TotalAmount.Equal(base.TotalAmount))

	o = base
	changed, err = OrderPatch{TotalAmount: Some(decimal.Zero)}.Apply(&o, UpdateExplicit)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, o.TotalAmount.IsZero())

	o = base
	_, err = OrderPatch{TotalAmount: Some(decimal.RequireFromString("-5"))}.Apply(&o, UpdateLegacy)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.True(t, o.TotalAmount.Equal(base.TotalAmount))
}

func TestOrderItemPatch_Apply(t *testing.T) {
	tests := []struct {
		name    string
		mode    UpdateMode
		qty     Optional[int]
		wantQty int
		wantErr error
	}{
		{name: "omitted", mode: UpdateExplicit, wantQty: 2},
		{name: "legacy zero ignored", mode: UpdateLegacy, qty: Some(0), wantQty: 2},
		{name: "explicit zero rejected", mode: UpdateExplicit, qty: Some(0), wantQty: 2, wantErr: ErrConstraint},
		{name: "legacy negative rejected", mode: UpdateLegacy, qty: Some(-4), wantQty: 2, wantErr: ErrConstraint},
		{name: "positive applied", mode: UpdateLegacy, qty: Some(9), wantQty: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := OrderItem{ID: 1, OrderID: 1, ProductID: 1, Quantity: 2}
			_, err := OrderItemPatch{Quantity: tt.qty}.Apply(&item, tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantQty, item.Quantity)
		})
	}
}

func TestErrors_Taxonomy(t *testing.T) {
	assert.ErrorIs(t, ErrConstraint, ErrReference)
	assert.ErrorIs(t, ErrHasDependents, ErrReference)
	assert.NotErrorIs(t, ErrValidation, ErrReference)

	err := Persistence(assert.AnError)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, Persistence(nil))
	assert.Same(t, ErrNotFound, Persistence(ErrNotFound))
}
