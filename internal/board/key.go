package board

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidParticipantKey is returned for removal values that do not name
// both an activity and an email.
var ErrInvalidParticipantKey = errors.New("invalid participant key")

// ParticipantKey addresses one registration. It is attached to removal
// controls at render time, so handling a removal never depends on which
// rendering of the list the control came from.
type ParticipantKey struct {
	Activity string
	Email    string
}

// Encode returns the form value representation of the key.
func (k ParticipantKey) Encode() string {
	return url.Values{"activity": {k.Activity}, "email": {k.Email}}.Encode()
}

// ParseParticipantKey reverses Encode.
func ParseParticipantKey(raw string) (ParticipantKey, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ParticipantKey{}, fmt.Errorf("%w: %v", ErrInvalidParticipantKey, err)
	}
	key := ParticipantKey{Activity: values.Get("activity"), Email: values.Get("email")}
	if key.Activity == "" || key.Email == "" {
		return ParticipantKey{}, ErrInvalidParticipantKey
	}
	return key, nil
}
