package models

import (
	"gorm.io/gorm"
)

type Participant struct {
	gorm.Model
	ActivityID uint   `json:"activity_id" gorm:"uniqueIndex:idx_activity_email"`
	Email      string `json:"email" gorm:"uniqueIndex:idx_activity_email"`
}
