package board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdg-garage/activity-board/internal/activities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeTransport behaves like the activities API over an in-memory roster.
type fakeTransport struct {
	mu        sync.Mutex
	list      []activities.Activity
	listErr   error
	mutateErr error
	refusal   *activities.Result
	listCalls int
}

func (f *fakeTransport) ListActivities(ctx context.Context) ([]activities.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]activities.Activity, len(f.list))
	for i, a := range f.list {
		a.Participants = append([]string(nil), a.Participants...)
		out[i] = a
	}
	return out, nil
}

func (f *fakeTransport) Signup(ctx context.Context, activity, email string) (activities.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return activities.Result{}, f.mutateErr
	}
	if f.refusal != nil {
		return *f.refusal, nil
	}
	for i := range f.list {
		if f.list[i].Name == activity {
			f.list[i].Participants = append(f.list[i].Participants, email)
			return activities.Result{StatusCode: http.StatusOK, Message: fmt.Sprintf("Signed up %s for %s", email, activity)}, nil
		}
	}
	return activities.Result{StatusCode: http.StatusNotFound, Detail: "Activity not found"}, nil
}

func (f *fakeTransport) Unregister(ctx context.Context, activity, email string) (activities.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return activities.Result{}, f.mutateErr
	}
	if f.refusal != nil {
		return *f.refusal, nil
	}
	for i := range f.list {
		if f.list[i].Name != activity {
			continue
		}
		for j, p := range f.list[i].Participants {
			if p == email {
				f.list[i].Participants = append(f.list[i].Participants[:j], f.list[i].Participants[j+1:]...)
				return activities.Result{StatusCode: http.StatusOK, Message: fmt.Sprintf("Unregistered %s from %s", email, activity)}, nil
			}
		}
	}
	return activities.Result{StatusCode: http.StatusBadRequest, Detail: "Student is not signed up for this activity"}, nil
}

type recordingView struct {
	list    string
	options []SelectOption
	renders int
	resets  int
	message Message
	visible bool
}

func (v *recordingView) RenderBoard(list string, options []SelectOption) {
	v.list = list
	v.options = options
	v.renders++
}

func (v *recordingView) ResetForm() { v.resets++ }

func (v *recordingView) ShowMessage(msg Message) {
	v.message = msg
	v.visible = true
}

func (v *recordingView) HideMessage() { v.visible = false }

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) schedule(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs a timer the way the runtime would, ignoring Stop.
func (s *fakeScheduler) fire(i int) {
	s.timers[i].fn()
}

func seedList() []activities.Activity {
	return []activities.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		{
			Name:            "Basketball Team",
			Description:     "Competitive basketball",
			Schedule:        "Wednesdays, 4:00 PM - 6:00 PM",
			MaxParticipants: 15,
			Participants:    []string{},
		},
	}
}

func newTestController(t *testing.T, transport *fakeTransport) (*Controller, *recordingView, *fakeScheduler) {
	t.Helper()
	view := &recordingView{}
	sched := &fakeScheduler{}
	ctrl := NewController(transport, view, zap.NewNop(),
		WithScheduler(sched.schedule),
		WithActionIDs(func() string { return "action-1" }),
	)
	return ctrl, view, sched
}

func TestLoadAndRender(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, _ := newTestController(t, transport)

	require.NoError(t, ctrl.LoadAndRender(context.Background()))

	assert.Equal(t, 1, view.renders)
	assert.Contains(t, view.list, "<h4>Chess Club</h4>")
	assert.Contains(t, view.list, "<p><strong>Availability:</strong> 10 spots left</p>")
	assert.Contains(t, view.list, "<p><strong>Availability:</strong> 15 spots left</p>")
	assert.Contains(t, view.list, `<div class="participants empty">No participants yet</div>`)
	assert.Contains(t, view.list, `<span class="avatar">M</span>michael@mergington.edu`)
	assert.Less(t, strings.Index(view.list, "Chess Club"), strings.Index(view.list, "Basketball Team"))

	assert.Equal(t, []SelectOption{
		Placeholder(),
		{Value: "Chess Club", Label: "Chess Club"},
		{Value: "Basketball Team", Label: "Basketball Team"},
	}, view.options)
}

func TestLoadAndRender_SpotsLeftMatchesCapacity(t *testing.T) {
	list := []activities.Activity{
		{Name: "Full", MaxParticipants: 1, Participants: []string{"a@x.edu"}},
		{Name: "Over", MaxParticipants: 1, Participants: []string{"a@x.edu", "b@x.edu"}},
		{Name: "Zero", MaxParticipants: 0, Participants: []string{}},
		{Name: "Wide", MaxParticipants: 30, Participants: []string{"a@x.edu", "b@x.edu", "c@x.edu"}},
	}
	transport := &fakeTransport{list: list}
	ctrl, view, _ := newTestController(t, transport)

	require.NoError(t, ctrl.LoadAndRender(context.Background()))

	cards := strings.Split(view.list, `<div class="activity-card">`)[1:]
	require.Len(t, cards, len(list))
	for i, a := range list {
		want := fmt.Sprintf("<strong>Availability:</strong> %d spots left", a.MaxParticipants-len(a.Participants))
		assert.Contains(t, cards[i], want, a.Name)
	}
}

func TestLoadAndRender_FailureResetsBoard(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	core, logs := observer.New(zapcore.ErrorLevel)
	view := &recordingView{}
	ctrl := NewController(transport, view, zap.New(core))

	require.NoError(t, ctrl.LoadAndRender(context.Background()))
	require.Len(t, view.options, 3)

	transport.listErr = errors.New("connection refused")
	err := ctrl.LoadAndRender(context.Background())
	require.Error(t, err)

	assert.Equal(t, LoadFailureMarkup, view.list)
	assert.Equal(t, []SelectOption{Placeholder()}, view.options)
	assert.Equal(t, 1, logs.FilterMessage("Error fetching activities").Len())
}

func TestSignup_Success(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, sched := newTestController(t, transport)
	require.NoError(t, ctrl.LoadAndRender(context.Background()))

	out := ctrl.HandleAction(context.Background(), Signup{Activity: "Basketball Team", Email: "john@mergington.edu"})

	require.NoError(t, out.Err)
	assert.Equal(t, "action-1", out.ActionID)
	assert.True(t, out.Reloaded)
	assert.Equal(t, Message{Kind: MessageSuccess, Text: "Signed up john@mergington.edu for Basketball Team"}, view.message)
	assert.True(t, view.visible)
	assert.Equal(t, 1, view.resets)
	assert.Equal(t, 2, view.renders)
	assert.Equal(t, 1, strings.Count(view.list, `data-email="john@mergington.edu"`))
	assert.Contains(t, view.list, "<p><strong>Availability:</strong> 14 spots left</p>")

	require.Len(t, sched.timers, 1)
	assert.Equal(t, 5000*time.Millisecond, sched.timers[0].delay)
}

func TestSignup_MessageTextFromPayload(t *testing.T) {
	transport := &fakeTransport{
		list:    seedList(),
		refusal: &activities.Result{StatusCode: http.StatusOK, Message: "Signed up John"},
	}
	ctrl, view, _ := newTestController(t, transport)

	out := ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "john@mergington.edu"})

	assert.Equal(t, Message{Kind: MessageSuccess, Text: "Signed up John"}, out.Message)
	assert.Equal(t, "Signed up John", view.message.Text)
	assert.Equal(t, 1, view.resets)
}

func TestSignup_RefusedKeepsList(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, _ := newTestController(t, transport)
	require.NoError(t, ctrl.LoadAndRender(context.Background()))
	before := view.list

	transport.refusal = &activities.Result{StatusCode: http.StatusBadRequest, Detail: "Already registered"}
	out := ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "michael@mergington.edu"})

	require.NoError(t, out.Err)
	assert.False(t, out.Reloaded)
	assert.Equal(t, Message{Kind: MessageError, Text: "Already registered"}, view.message)
	assert.True(t, view.visible)
	assert.Equal(t, before, view.list)
	assert.Equal(t, 1, view.renders)
	assert.Zero(t, view.resets)
}

func TestSignup_RefusedWithoutDetail(t *testing.T) {
	transport := &fakeTransport{
		list:    seedList(),
		refusal: &activities.Result{StatusCode: http.StatusInternalServerError},
	}
	ctrl, view, _ := newTestController(t, transport)

	ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "x@y.z"})

	assert.Equal(t, Message{Kind: MessageError, Text: "An error occurred"}, view.message)
}

func TestSignup_TransportFailure(t *testing.T) {
	transport := &fakeTransport{list: seedList(), mutateErr: errors.New("dial tcp: refused")}
	core, logs := observer.New(zapcore.ErrorLevel)
	view := &recordingView{}
	sched := &fakeScheduler{}
	ctrl := NewController(transport, view, zap.New(core), WithScheduler(sched.schedule))

	out := ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "x@y.z"})

	require.Error(t, out.Err)
	assert.Equal(t, Message{Kind: MessageError, Text: "Failed to sign up. Please try again."}, view.message)
	assert.Zero(t, transport.listCalls)
	assert.Zero(t, view.resets)
	assert.Len(t, sched.timers, 1)
	assert.Equal(t, 1, logs.Len())
}

func TestUnregister_Success(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, _ := newTestController(t, transport)
	require.NoError(t, ctrl.LoadAndRender(context.Background()))

	key := ParticipantKey{Activity: "Chess Club", Email: "michael@mergington.edu"}
	out := ctrl.HandleAction(context.Background(), Unregister{Key: key})

	require.NoError(t, out.Err)
	assert.True(t, out.Reloaded)
	assert.Equal(t, Message{Kind: MessageSuccess, Text: "Unregistered michael@mergington.edu from Chess Club"}, view.message)
	assert.NotContains(t, view.list, "michael@mergington.edu")
	assert.Contains(t, view.list, "<p><strong>Availability:</strong> 11 spots left</p>")
	assert.Zero(t, view.resets)
}

func TestUnregister_TransportFailure(t *testing.T) {
	transport := &fakeTransport{list: seedList(), mutateErr: errors.New("timeout")}
	ctrl, view, sched := newTestController(t, transport)

	out := ctrl.HandleAction(context.Background(), Unregister{Key: ParticipantKey{Activity: "Chess Club", Email: "a@b.c"}})

	require.Error(t, out.Err)
	assert.Equal(t, "Failed to unregister. Please try again.", view.message.Text)
	assert.Len(t, sched.timers, 1)
}

type bogusAction struct{}

func (bogusAction) isAction() {}

func TestHandleAction_Unknown(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, _ := newTestController(t, transport)

	out := ctrl.HandleAction(context.Background(), bogusAction{})

	assert.ErrorIs(t, out.Err, ErrUnknownAction)
	assert.False(t, view.visible)
}

func TestMessage_HidesAfterDelay(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, sched := newTestController(t, transport)

	ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "a@b.c"})
	require.True(t, view.visible)

	sched.fire(0)
	assert.False(t, view.visible)
}

func TestMessage_NewOutcomeRestartsTimer(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	ctrl, view, sched := newTestController(t, transport)

	ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "a@b.c"})
	ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "d@e.f"})

	require.Len(t, sched.timers, 2)
	assert.True(t, sched.timers[0].stopped)
	assert.False(t, sched.timers[1].stopped)

	// The first timer already fired before it could be stopped.
	sched.fire(0)
	assert.True(t, view.visible)
	assert.Equal(t, "Signed up d@e.f for Chess Club", view.message.Text)

	sched.fire(1)
	assert.False(t, view.visible)
}

func TestNewController_RealScheduler(t *testing.T) {
	transport := &fakeTransport{list: seedList()}
	view := &syncView{}
	ctrl := NewController(transport, view, nil, WithHideDelay(10*time.Millisecond))

	ctrl.HandleAction(context.Background(), Signup{Activity: "Chess Club", Email: "a@b.c"})

	assert.Eventually(t, func() bool { return view.hidden() }, time.Second, 5*time.Millisecond)
}

type syncView struct {
	mu      sync.Mutex
	visible bool
}

func (v *syncView) RenderBoard(string, []SelectOption) {}
func (v *syncView) ResetForm()                         {}

func (v *syncView) ShowMessage(Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = true
}

func (v *syncView) HideMessage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible = false
}

func (v *syncView) hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.visible
}
