package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/go-profiles/internal/models"
	"github.com/diewo77/go-profiles/internal/observability"
	"github.com/diewo77/go-profiles/validation"
)

// Invalidator drops the cached profile of a user.
type Invalidator interface {
	Invalidate(userID uint)
}

// UserProfileService manages administrators and their profile assignment.
type UserProfileService struct {
	db          *gorm.DB
	invalidator Invalidator
	logger      logrus.FieldLogger
	metrics     *observability.Metrics
}

// NewUserProfileService creates the service. invalidator may be nil.
func NewUserProfileService(db *gorm.DB, invalidator Invalidator, logger logrus.FieldLogger, metrics *observability.Metrics) *UserProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserProfileService{db: db, invalidator: invalidator, logger: logger, metrics: metrics}
}

// CreateUser registers an administrator without a profile.
func (s *UserProfileService) CreateUser(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.MaxLength("email", email, 255, v)
	validation.MaxLength("name", strings.TrimSpace(name), 255, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	user := models.User{Email: email, Name: strings.TrimSpace(name)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.Violations{"email": "duplicate"}.Err()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Assign links the user to profileID; a nil profileID removes the assignment.
func (s *UserProfileService) Assign(ctx context.Context, userID uint, profileID *uint) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("assign_profile", outcomeOf(err), start) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if profileID != nil {
			if err := mustExist(tx, *profileID); err != nil {
				return err
			}
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("profile_id", profileID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("assign profile to user %d: %w", userID, err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
	log := s.logger.WithField("user_id", userID)
	if profileID != nil {
		log = log.WithField("profile_id", *profileID)
	}
	log.Info("profile assigned")
	return nil
}
