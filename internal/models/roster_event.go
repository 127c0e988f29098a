package models

import (
	"gorm.io/gorm"
)

type RosterAction string

const (
	RosterSignup     RosterAction = "signup"
	RosterUnregister RosterAction = "unregister"
)

// RosterEvent records one change to an activity roster. Events are kept when
// the participant row itself is removed.
type RosterEvent struct {
	gorm.Model
	ActivityID uint         `json:"-" gorm:"index"`
	Email      string       `json:"email"`
	Action     RosterAction `json:"action"`
}
