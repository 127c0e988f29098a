package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/activity-board/internal/notifier"
	"github.com/gdg-garage/activity-board/internal/repository"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	repo     repository.ActivityRepository
	notifier notifier.Notifier
	logger   *zap.Logger
}

// NewActivityHandler builds the activities API handler. notifier may be nil.
func NewActivityHandler(repo repository.ActivityRepository, notifier notifier.Notifier, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{repo: repo, notifier: notifier, logger: logger}
}

type ActivityDetails struct {
	Description     string   `json:"description" doc:"What the activity is about"`
	Schedule        string   `json:"schedule" doc:"When the activity meets"`
	MaxParticipants int      `json:"max_participants" doc:"Capacity of the roster"`
	Participants    []string `json:"participants" doc:"Participant emails in signup order"`
}

type NamedActivity struct {
	Name    string
	Details ActivityDetails
}

// ActivityCollection is encoded as a JSON object keyed by activity name,
// keeping the slice order as the key order.
type ActivityCollection []NamedActivity

func (c ActivityCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.Details)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Schema documents the collection as a map of activity details.
func (ActivityCollection) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:                 huma.TypeObject,
		Description:          "Activities keyed by name",
		AdditionalProperties: r.Schema(reflect.TypeOf(ActivityDetails{}), true, "ActivityDetails"),
	}
}

type ListActivitiesInput struct{}

type ListActivitiesResponse struct {
	CacheControl string `header:"Cache-Control"`
	Body         ActivityCollection
}

func (h *ActivityHandler) HandleList(ctx context.Context, input *ListActivitiesInput) (*ListActivitiesResponse, error) {
	list, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list activities", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list activities")
	}

	res := &ListActivitiesResponse{CacheControl: "no-store", Body: ActivityCollection{}}
	for _, a := range list {
		res.Body = append(res.Body, NamedActivity{
			Name: a.Name,
			Details: ActivityDetails{
				Description:     a.Description,
				Schedule:        a.Schedule,
				MaxParticipants: a.MaxParticipants,
				Participants:    a.Emails(),
			},
		})
	}
	return res, nil
}

type SignupInput struct {
	ActivityName string `path:"activityName" doc:"Name of the activity"`
	Email        string `query:"email" required:"true" doc:"Participant email"`
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ActivityHandler) HandleSignup(ctx context.Context, input *SignupInput) (*MessageResponse, error) {
	if err := h.repo.Signup(ctx, input.ActivityName, input.Email); err != nil {
		return nil, h.toHumaError(err)
	}

	if h.notifier != nil {
		if err := h.notifier.NotifySignup(input.ActivityName, input.Email); err != nil {
			h.logger.Warn("Failed to send signup notification", zap.Error(err))
		}
	}

	res := &MessageResponse{}
	res.Body.Message = fmt.Sprintf("Signed up %s for %s", input.Email, input.ActivityName)
	return res, nil
}

func (h *ActivityHandler) HandleUnregister(ctx context.Context, input *SignupInput) (*MessageResponse, error) {
	if err := h.repo.Unregister(ctx, input.ActivityName, input.Email); err != nil {
		return nil, h.toHumaError(err)
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyUnregister(input.ActivityName, input.Email); err != nil {
			h.logger.Warn("Failed to send unregister notification", zap.Error(err))
		}
	}

	res := &MessageResponse{}
	res.Body.Message = fmt.Sprintf("Unregistered %s from %s", input.Email, input.ActivityName)
	return res, nil
}

type HistoryInput struct {
	ActivityName string `path:"activityName" doc:"Name of the activity"`
}

type RosterEventBody struct {
	Email     string    `json:"email"`
	Action    string    `json:"action" enum:"signup,unregister"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	CacheControl string `header:"Cache-Control"`
	Body         []RosterEventBody
}

func (h *ActivityHandler) HandleHistory(ctx context.Context, input *HistoryInput) (*HistoryResponse, error) {
	events, err := h.repo.History(ctx, input.ActivityName)
	if err != nil {
		return nil, h.toHumaError(err)
	}

	res := &HistoryResponse{CacheControl: "no-store", Body: []RosterEventBody{}}
	for _, e := range events {
		res.Body = append(res.Body, RosterEventBody{
			Email:     e.Email,
			Action:    string(e.Action),
			CreatedAt: e.CreatedAt,
		})
	}
	return res, nil
}

func (h *ActivityHandler) toHumaError(err error) error {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return huma.Error404NotFound("Activity not found")
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return huma.Error400BadRequest("Student already signed up for this activity")
	case errors.Is(err, repository.ErrNotSignedUp):
		return huma.Error400BadRequest("Student is not signed up for this activity")
	case errors.Is(err, repository.ErrActivityFull):
		return huma.Error400BadRequest("Activity is full")
	default:
		h.logger.Error("Failed to update roster", zap.Error(err))
		return huma.Error500InternalServerError("Failed to update roster")
	}
}
