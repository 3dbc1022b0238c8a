package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"shop-service/internal/domain"
	"shop-service/internal/repository"
)

// TxState is the lifecycle of one mutating call:
// started -> validating -> committed | aborted.
type TxState string

const (
	TxStarted    TxState = "started"
	TxValidating TxState = "validating"
	TxCommitted  TxState = "committed"
	TxAborted    TxState = "aborted"
)

// atomic runs fn as a single unit of work. Checks made inside fn see the
// same snapshot as the writes they guard.
func (s *ShopService) atomic(ctx context.Context, op string, fn func(tx repository.Tx) error) error {
	log := zap.L().With(zap.String("op", op))
	log.Debug("transaction", zap.String("state", string(TxStarted)))

	err := s.store.Atomic(ctx, func(tx repository.Tx) error {
		log.Debug("transaction", zap.String("state", string(TxValidating)))
		return fn(tx)
	})
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			log.Error("transaction", zap.String("state", string(TxAborted)), zap.Error(err))
		} else {
			log.Debug("transaction", zap.String("state", string(TxAborted)), zap.Error(err))
		}
		return err
	}

	log.Debug("transaction", zap.String("state", string(TxCommitted)))
	return nil
}
