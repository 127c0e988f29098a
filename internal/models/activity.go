package models

import (
	"gorm.io/gorm"
)

type Activity struct {
	gorm.Model
	Name            string        `json:"name" gorm:"uniqueIndex"`
	Description     string        `json:"description"`
	Schedule        string        `json:"schedule"`
	MaxParticipants int           `json:"max_participants"`
	Position        int           `json:"-"` // display order
	Participants    []Participant `json:"participants" gorm:"constraint:OnDelete:CASCADE"`
}

// Emails returns the roster in signup order.
func (a Activity) Emails() []string {
	emails := make([]string, 0, len(a.Participants))
	for _, p := range a.Participants {
		emails = append(emails, p.Email)
	}
	return emails
}
