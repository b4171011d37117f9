package workers

import (
	"context"
	"time"

	"tdc_backend/internal/logger"
	"tdc_backend/internal/repositories"

	"gorm.io/gorm"
)

// ResetTokenWorker periodically clears password reset tokens that have expired.
type ResetTokenWorker struct {
	db       *gorm.DB
	users    repositories.BasicUserRepository
	interval time.Duration
	now      func() time.Time
}

func NewResetTokenWorker(db *gorm.DB, users repositories.BasicUserRepository, interval time.Duration) *ResetTokenWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ResetTokenWorker{
		db:       db,
		users:    users,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs the sweep in the background until ctx is cancelled.
func (w *ResetTokenWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ResetTokenWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset token worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logger.Error("Error clearing expired reset tokens", "error", err)
			}
		}
	}
}

// Sweep clears expired tokens once and reports how many users were touched.
func (w *ResetTokenWorker) Sweep(ctx context.Context) (int64, error) {
	n, err := w.users.ClearExpiredResetTokens(w.db.WithContext(ctx), w.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Cleared expired reset tokens", "count", n)
	}
	return n, nil
}
