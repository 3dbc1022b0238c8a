package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shop-service/internal/domain"
	"shop-service/internal/mocks"
	"shop-service/internal/repository/memory"
)

const (
	TestUsername     = "u1"
	TestEmail        = "u1@example.com"
	TestPasswordHash = "5f4dcc3b5aa765d61d8327deb882cf99"
	TestProductName  = "p1"
)

func newTestService(t *testing.T, opts Options) (*ShopService, *mocks.MockPublisher) {
	t.Helper()
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewShopService(memory.NewStore(), pub, opts), pub
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	user    *domain.User
	order   *domain.Order
	product *domain.Product
}

// seed creates user u1, an order for u1 totalling 10.00 and product p1
// priced 5.00.
func seed(t *testing.T, s *ShopService) fixture {
	t.Helper()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, TestUsername, TestEmail, TestPasswordHash)
	require.NoError(t, err)
	o, err := s.CreateOrder(ctx, u.ID, money("10.00"))
	require.NoError(t, err)
	desc := "first product"
	p, err := s.CreateProduct(ctx, TestProductName, &desc, money("5.00"))
	require.NoError(t, err)

	return fixture{user: u, order: o, product: p}
}
