package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/activity-board/internal/activities"
	"go.uber.org/zap"
)

const (
	fallbackErrorText     = "An error occurred"
	signupFailureText     = "Failed to sign up. Please try again."
	unregisterFailureText = "Failed to unregister. Please try again."
)

// ErrUnknownAction is returned for actions the controller does not handle.
var ErrUnknownAction = errors.New("unknown board action")

// Action is a user command dispatched to HandleAction.
type Action interface {
	isAction()
}

// Signup registers Email for Activity. Activity comes from the selection
// control and Email from the form field.
type Signup struct {
	Activity string
	Email    string
}

// Unregister removes the registration addressed by Key, taken from the
// removal control that was used.
type Unregister struct {
	Key ParticipantKey
}

func (Signup) isAction()     {}
func (Unregister) isAction() {}

// Outcome describes what an action did to the board.
type Outcome struct {
	ActionID string
	Message  Message
	// Reloaded is set when a successful mutation was followed by a
	// successful reload.
	Reloaded bool
	// Err is set when the request itself failed (transport or parse).
	Err error
}

// HandleAction is the single entry point for user commands.
func (c *Controller) HandleAction(ctx context.Context, action Action) Outcome {
	id := c.newID()
	logger := c.logger.With(zap.String("action_id", id))

	var out Outcome
	switch a := action.(type) {
	case Signup:
		out = c.mutate(ctx, logger, mutation{
			name:        "signup",
			key:         ParticipantKey{Activity: a.Activity, Email: a.Email},
			call:        c.transport.Signup,
			failureText: signupFailureText,
			resetForm:   true,
		})
	case Unregister:
		out = c.mutate(ctx, logger, mutation{
			name:        "unregister",
			key:         a.Key,
			call:        c.transport.Unregister,
			failureText: unregisterFailureText,
		})
	default:
		err := fmt.Errorf("%w: %T", ErrUnknownAction, action)
		logger.Error("board action rejected", zap.Error(err))
		out = Outcome{Err: err}
	}
	out.ActionID = id
	return out
}

type mutation struct {
	name        string
	key         ParticipantKey
	call        func(ctx context.Context, activity, email string) (activities.Result, error)
	failureText string
	resetForm   bool
}

func (c *Controller) mutate(ctx context.Context, logger *zap.Logger, m mutation) Outcome {
	logger = logger.With(
		zap.String("action", m.name),
		zap.String("activity", m.key.Activity),
		zap.String("email", m.key.Email),
	)

	res, err := m.call(ctx, m.key.Activity, m.key.Email)
	if err != nil {
		logger.Error("Error submitting "+m.name, zap.Error(err))
		msg := Message{Kind: MessageError, Text: m.failureText}
		c.showMessage(msg)
		return Outcome{Message: msg, Err: err}
	}

	if !res.OK() {
		text := res.Detail
		if text == "" {
			text = fallbackErrorText
		}
		logger.Info("board action refused", zap.Int("status", res.StatusCode), zap.String("detail", res.Detail))
		msg := Message{Kind: MessageError, Text: text}
		c.showMessage(msg)
		return Outcome{Message: msg}
	}

	msg := Message{Kind: MessageSuccess, Text: res.Message}
	c.showMessage(msg)
	if m.resetForm {
		c.view.ResetForm()
	}
	reloaded := c.LoadAndRender(ctx) == nil
	logger.Info("board action applied", zap.Bool("reloaded", reloaded))
	return Outcome{Message: msg, Reloaded: reloaded}
}
