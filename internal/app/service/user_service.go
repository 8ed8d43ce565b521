package service

import (
	"errors"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidGender = errors.New("gender must be male, female or other")

type ProfileUpdate struct {
	Username    *string
	FirstName   *string
	LastName    *string
	Phone       *string
	Avatar      *string
	DateOfBirth *time.Time
	Gender      *string
}

type UserService interface {
	GetByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error)
	ListUsers(filter repository.UserFilter) ([]model.User, int64, error)
	SetActive(userID uint, active bool, adminID uint) (*model.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	activitySvc ActivityService
}

func NewUserService(userRepo repository.UserRepository, activitySvc ActivityService) UserService {
	return &userService{userRepo: userRepo, activitySvc: activitySvc}
}

func (s *userService) GetByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if update.Username != nil {
		user.Username = *update.Username
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: userID}
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		profile.LastName = *update.LastName
	}
	if update.Phone != nil {
		profile.Phone = *update.Phone
	}
	if update.Avatar != nil {
		profile.Avatar = *update.Avatar
	}
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	if update.Gender != nil {
		gender := model.Gender(*update.Gender)
		switch gender {
		case model.GenderMale, model.GenderFemale, model.GenderOther:
			profile.Gender = gender
		default:
			return nil, ErrInvalidGender
		}
	}

	if err := s.userRepo.SaveProfile(profile); err != nil {
		logger.Error("Failed to save profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	s.activitySvc.Record(userID, model.ActionUpdateProfile, "user", userID, nil, "")

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return s.userRepo.FindByID(userID)
}

func (s *userService) ListUsers(filter repository.UserFilter) ([]model.User, int64, error) {
	logger.Debug("Listing users", map[string]interface{}{
		"search": filter.Search,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
	return s.userRepo.FindWithFilter(filter)
}

// SetActive toggles account access. Deactivated users keep their data
// but can no longer log in.
func (s *userService) SetActive(userID uint, active bool, adminID uint) (*model.User, error) {
	logger.Info("Changing user active state", map[string]interface{}{
		"user_id": userID,
		"active":  active,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	action := model.ActionDeactivateUser
	if active {
		action = model.ActionReactivateUser
	}
	s.activitySvc.Record(adminID, action, "user", userID, nil, "")

	return user, nil
}
