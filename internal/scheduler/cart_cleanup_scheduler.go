package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
)

// staleAfter is how long an untouched cart item survives before the
// nightly purge reclaims it.
const staleAfter = 30 * 24 * time.Hour

// CartCleanupScheduler purges abandoned cart items on a nightly cron.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
	}
}

func (s *CartCleanupScheduler) Start() error {
	// Daily at 03:00, well outside shopping hours.
	_, err := s.cron.AddFunc("0 3 * * *", s.runOnce)
	if err != nil {
		logger.Error("Failed to add cart cleanup cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 3:00 AM)")
	return nil
}

func (s *CartCleanupScheduler) runOnce() {
	logger.Info("Starting scheduled cart cleanup")

	cutoff := time.Now().Add(-staleAfter)
	deleted, err := s.cartRepo.DeleteStaleItems(cutoff)
	if err != nil {
		logger.Error("Scheduled cart cleanup failed", err)
		return
	}

	logger.Info("Scheduled cart cleanup finished", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
}

func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler")
	s.cron.Stop()
}
