package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/activity-board/internal/models"
	"gorm.io/gorm"
)

// GormActivityRepository stores activities through gorm.
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("participants.id")
		}).
		Order("position, id").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (r *GormActivityRepository) Signup(ctx context.Context, activity, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := findActivity(tx, activity)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Participant{}).
			Where("activity_id = ? AND email = ?", act.ID, email).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check roster: %w", err)
		}
		if existing > 0 {
			return ErrAlreadySignedUp
		}

		var enrolled int64
		if err := tx.Model(&models.Participant{}).
			Where("activity_id = ?", act.ID).
			Count(&enrolled).Error; err != nil {
			return fmt.Errorf("count roster: %w", err)
		}
		if int(enrolled) >= act.MaxParticipants {
			return ErrActivityFull
		}

		if err := tx.Create(&models.Participant{ActivityID: act.ID, Email: email}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadySignedUp
			}
			return fmt.Errorf("add participant: %w", err)
		}
		return recordEvent(tx, act.ID, email, models.RosterSignup)
	})
}

func (r *GormActivityRepository) Unregister(ctx context.Context, activity, email string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act, err := findActivity(tx, activity)
		if err != nil {
			return err
		}

		// Hard delete so the unique (activity, email) pair is free for a later signup.
		res := tx.Unscoped().
			Where("activity_id = ? AND email = ?", act.ID, email).
			Delete(&models.Participant{})
		if res.Error != nil {
			return fmt.Errorf("remove participant: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotSignedUp
		}
		return recordEvent(tx, act.ID, email, models.RosterUnregister)
	})
}

func (r *GormActivityRepository) History(ctx context.Context, activity string) ([]models.RosterEvent, error) {
	db := r.db.WithContext(ctx)
	act, err := findActivity(db, activity)
	if err != nil {
		return nil, err
	}

	var events []models.RosterEvent
	if err := db.Where("activity_id = ?", act.ID).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list roster events: %w", err)
	}
	return events, nil
}

func (r *GormActivityRepository) Seed(ctx context.Context, activities []models.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Activity{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count activities: %w", err)
		}
		if count > 0 || len(activities) == 0 {
			return nil
		}
		if err := tx.Create(&activities).Error; err != nil {
			return fmt.Errorf("seed activities: %w", err)
		}
		return nil
	})
}

func findActivity(tx *gorm.DB, name string) (*models.Activity, error) {
	var act models.Activity
	if err := tx.Where("name = ?", name).First(&act).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}
	return &act, nil
}

func recordEvent(tx *gorm.DB, activityID uint, email string, action models.RosterAction) error {
	event := models.RosterEvent{ActivityID: activityID, Email: email, Action: action}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("record roster event: %w", err)
	}
	return nil
}
