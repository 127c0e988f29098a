package main

import (
	"bytes"
	"testing"

	"github.com/gdg-garage/activity-board/internal/activities"
	"github.com/stretchr/testify/assert"
)

func TestPrintActivities(t *testing.T) {
	var buf bytes.Buffer
	printActivities(&buf, []activities.Activity{
		{Name: "Chess Club", Schedule: "Fridays, 3:30 PM - 5:00 PM", MaxParticipants: 12, Participants: []string{"michael@mergington.edu", "daniel@mergington.edu"}},
		{Name: "Drama Club", Schedule: "Tuesdays", MaxParticipants: 20, Participants: []string{}},
	})

	out := buf.String()
	assert.Contains(t, out, "Found 2 activities")
	assert.Contains(t, out, "Chess Club (10 spots left)")
	assert.Contains(t, out, "  [M] michael@mergington.edu")
	assert.Contains(t, out, "  [D] daniel@mergington.edu")
	assert.Contains(t, out, "Drama Club (20 spots left)\n  Schedule: Tuesdays\n  No participants yet")
}
