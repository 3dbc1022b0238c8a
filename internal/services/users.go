package services

import (
	"context"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

func (s *ShopService) CreateUser(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	err := s.atomic(ctx, "create user", func(tx repository.Tx) error {
		if err := u.Validate(); err != nil {
			return err
		}
		return tx.CreateUser(u)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionCreated, domain.KindUser, u.ID, u)
	return u, nil
}

func (s *ShopService) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	return lookup(ctx, s, domain.KindUser, id, s.store.FindUser)
}

// UpdateUser applies the supplied username and email. An empty patch
// returns the stored user unchanged.
func (s *ShopService) UpdateUser(ctx context.Context, id uint64, patch domain.UserPatch) (*domain.User, error) {
	var (
		out     *domain.User
		changed bool
	)
	err := s.atomic(ctx, "update user", func(tx repository.Tx) error {
		u, err := tx.LockUser(id)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound(domain.KindUser, id)
		}
		if changed, err = patch.Apply(u, s.mode); err != nil {
			return err
		}
		out = u
		if !changed {
			return nil
		}
		return tx.SaveUser(u)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.afterCommit(ctx, domain.ActionUpdated, domain.KindUser, id, out)
	}
	return out, nil
}

// DeleteUser removes the user and returns the removed row.
func (s *ShopService) DeleteUser(ctx context.Context, id uint64) (*domain.User, error) {
	var (
		snapshot *domain.User
		removed  []domain.Ref
	)
	err := s.atomic(ctx, "delete user", func(tx repository.Tx) error {
		u, err := tx.LockUser(id)
		if err != nil {
			return err
		}
		if u == nil {
			return notFound(domain.KindUser, id)
		}
		if removed, err = s.clearDependents(tx, domain.KindUser, id); err != nil {
			return err
		}
		snapshot = u
		return tx.DeleteUser(id)
	})
	if err != nil {
		return nil, err
	}
	s.afterCommit(ctx, domain.ActionDeleted, domain.KindUser, id, snapshot, removed...)
	return snapshot, nil
}
