// Package activities is the HTTP client for the activities API consumed by the
// board: listing activities and adding or removing participants.
package activities

import "net/http"

// Activity is one entry of the activities collection, in the order the API
// returned it.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// SpotsLeft returns the remaining capacity. It is negative when the roster is
// over capacity.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Result is the decoded answer to a signup or unregister request.
type Result struct {
	StatusCode int
	Message    string
	Detail     string
}

// OK reports whether the API accepted the mutation.
func (r Result) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
