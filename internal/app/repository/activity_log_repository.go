package repository

import (
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityLogFilter struct {
	UserID *uint
	Action string
	Limit  int
	Offset int
}

type ActivityLogRepository interface {
	Create(entry *model.ActivityLog) error
	FindWithFilter(filter ActivityLogFilter) ([]model.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create activity log in database", err, map[string]interface{}{
			"user_id": entry.UserID,
			"action":  entry.Action,
		})
		return err
	}

	logger.Debug("Activity log created in database", map[string]interface{}{
		"log_id":  entry.ID,
		"user_id": entry.UserID,
		"action":  entry.Action,
	})
	return nil
}

func (r *activityLogRepository) FindWithFilter(filter ActivityLogFilter) ([]model.ActivityLog, int64, error) {
	logger.Debug("Finding activity logs with filter in database", map[string]interface{}{
		"user_id": filter.UserID,
		"action":  filter.Action,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	query := r.db.Model(&model.ActivityLog{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count activity logs in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var entries []model.ActivityLog
	if err := query.Preload("User").Order("created_at DESC").Find(&entries).Error; err != nil {
		logger.Error("Failed to find activity logs with filter in database", err)
		return nil, 0, err
	}

	logger.Debug("Activity logs found with filter in database", map[string]interface{}{
		"count": len(entries),
		"total": total,
	})
	return entries, total, nil
}
