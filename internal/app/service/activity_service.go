package service

import (
	"encoding/json"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
)

// ActivityService records audit events. Recording is fire-and-forget:
// a failed write is logged and swallowed so it can never fail the
// operation being audited.
type ActivityService interface {
	Record(userID uint, action, entityType string, entityID uint, details map[string]interface{}, ipAddress string)
	List(filter repository.ActivityLogFilter) ([]model.ActivityLog, int64, error)
}

type activityService struct {
	activityRepo repository.ActivityLogRepository
	async        bool
}

func NewActivityService(activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{activityRepo: activityRepo, async: true}
}

// NewSyncActivityService records inline instead of on a goroutine.
// Used by tests that assert on written entries.
func NewSyncActivityService(activityRepo repository.ActivityLogRepository) ActivityService {
	return &activityService{activityRepo: activityRepo, async: false}
}

func (s *activityService) Record(userID uint, action, entityType string, entityID uint, details map[string]interface{}, ipAddress string) {
	entry := &model.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ipAddress,
	}

	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			logger.Warn("Failed to marshal activity details", map[string]interface{}{
				"user_id": userID,
				"action":  action,
			})
		} else {
			entry.Details = string(payload)
		}
	}

	write := func() {
		if err := s.activityRepo.Create(entry); err != nil {
			logger.Warn("Failed to record activity", map[string]interface{}{
				"user_id": userID,
				"action":  action,
			})
		}
	}

	if s.async {
		go write()
		return
	}
	write()
}

func (s *activityService) List(filter repository.ActivityLogFilter) ([]model.ActivityLog, int64, error) {
	logger.Debug("Fetching activity logs", map[string]interface{}{
		"user_id": filter.UserID,
		"action":  filter.Action,
	})

	entries, total, err := s.activityRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to fetch activity logs", err)
		return nil, 0, err
	}
	return entries, total, nil
}
