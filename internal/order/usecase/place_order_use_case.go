package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"cafe/internal/dto"
	apperrors "cafe/internal/errors"
	"cafe/internal/infrastructure/mysql"
	"cafe/internal/session"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error)
}

// PlaceOrderUseCase retries whole-order placement when the store aborts the
// transaction on a deadlock or a lock wait timeout.
type PlaceOrderUseCase struct {
	placer           OrderPlacer
	logger           *zap.Logger
	maxRetryAttempts int
	baseBackoff      time.Duration
}

func NewPlaceOrderUseCase(placer OrderPlacer, logger *zap.Logger, maxRetryAttempts int) *PlaceOrderUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &PlaceOrderUseCase{
		placer:           placer,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		baseBackoff:      100 * time.Millisecond,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, sess *session.Session, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	uc.logger.Info("place order started", zap.String("traceId", sess.ID()), zap.String("login", sess.Login()), zap.Int("itemCount", len(req.Items)))

	var lastErr error
	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		result, err := uc.placer.PlaceOrder(ctx, sess, req)
		if err == nil {
			return result, nil
		}

		if !mysql.IsDeadlock(err) {
			return nil, err
		}

		lastErr = err
		if attempt == uc.maxRetryAttempts {
			break
		}

		uc.logger.Warn("deadlock detected, retrying",
			zap.String("traceId", sess.ID()),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts))

		if err := sleep(ctx, uc.backoff(attempt)); err != nil {
			return nil, apperrors.NewTransientStoreError("placing order: cancelled while retrying", err)
		}
	}

	uc.logger.Error("place order gave up", zap.String("traceId", sess.ID()), zap.Int("attempts", uc.maxRetryAttempts), zap.Error(lastErr))
	return nil, apperrors.NewTransientStoreError("placing order: max retries exceeded", lastErr)
}

// backoff grows linearly with the attempt number, with +/-20% jitter.
func (uc *PlaceOrderUseCase) backoff(attempt int) time.Duration {
	base := uc.baseBackoff * time.Duration(attempt)
	jitter := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(base) * jitter)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
