// Package board implements the activity board controller: it loads the
// activity collection, renders it into a View, and turns user actions into
// signup and unregister calls followed by a full reload.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdg-garage/activity-board/internal/activities"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHideDelay is how long an outcome message stays visible.
const DefaultHideDelay = 5000 * time.Millisecond

// Transport is the remote activities API.
type Transport interface {
	ListActivities(ctx context.Context) ([]activities.Activity, error)
	Signup(ctx context.Context, activity, email string) (activities.Result, error)
	Unregister(ctx context.Context, activity, email string) (activities.Result, error)
}

// View receives everything the controller draws. RenderBoard always carries
// the list markup and the selection options of the same snapshot.
type View interface {
	RenderBoard(list string, options []SelectOption)
	ResetForm()
	ShowMessage(msg Message)
	HideMessage()
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

// Option configures a Controller.
type Option func(*Controller)

// WithHideDelay overrides DefaultHideDelay.
func WithHideDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.hideDelay = d
		}
	}
}

// WithScheduler replaces time.AfterFunc for the message timer.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithActionIDs replaces the uuid generator used to tag actions in logs.
func WithActionIDs(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// Controller owns the fetch, render, mutate, re-fetch cycle of the board.
type Controller struct {
	transport Transport
	view      View
	logger    *zap.Logger
	hideDelay time.Duration
	schedule  Scheduler
	newID     func() string

	mu         sync.Mutex
	hideTimer  Timer
	messageSeq uint64
}

// NewController builds the controller. It is constructed once at startup.
func NewController(transport Transport, view View, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		transport: transport,
		view:      view,
		logger:    logger,
		hideDelay: DefaultHideDelay,
		schedule: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAndRender fetches a fresh snapshot and redraws the list and the
// selection control from it. On failure the list shows a failure notice and
// the selection control is reset so no stale options outlive the list.
func (c *Controller) LoadAndRender(ctx context.Context) error {
	list, err := c.transport.ListActivities(ctx)
	if err != nil {
		c.logger.Error("Error fetching activities", zap.Error(err))
		c.view.RenderBoard(LoadFailureMarkup, []SelectOption{Placeholder()})
		return fmt.Errorf("load activities: %w", err)
	}

	markup, options := RenderSnapshot(list)
	c.view.RenderBoard(markup, options)
	c.logger.Debug("board rendered", zap.Int("activities", len(list)))
	return nil
}
