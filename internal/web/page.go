// Package web hosts the activity board as a server-rendered page. Page holds
// the activity snapshot every visitor sees; each visitor gets a Visitor view
// with its own form draft and message, driven by its own board controller.
package web

import (
	"sync"

	"github.com/gdg-garage/activity-board/internal/board"
)

// Draft holds the signup form values as last submitted by the visitor.
type Draft struct {
	Email    string
	Activity string
}

// PageState is a consistent copy of everything one visitor's page shows.
type PageState struct {
	List           string
	Options        []board.SelectOption
	Draft          Draft
	Message        board.Message
	MessageVisible bool
}

// Page keeps the latest rendered snapshot shared by all visitors.
type Page struct {
	mu      sync.RWMutex
	list    string
	options []board.SelectOption
}

// NewPage returns a page showing the loading notice.
func NewPage() *Page {
	return &Page{
		list:    board.LoadingMarkup,
		options: []board.SelectOption{board.Placeholder()},
	}
}

// Publish replaces the snapshot. List and options always come from the same
// fetch.
func (p *Page) Publish(list string, options []board.SelectOption) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.list = list
	p.options = append([]board.SelectOption(nil), options...)
}

// Snapshot returns a copy of the current list and options.
func (p *Page) Snapshot() (string, []board.SelectOption) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.list, append([]board.SelectOption(nil), p.options...)
}

// Visitor is the board View of a single visitor.
type Visitor struct {
	page *Page

	mu             sync.Mutex
	draft          Draft
	message        board.Message
	messageVisible bool
}

// NewVisitor returns an empty form and a hidden message over page.
func NewVisitor(page *Page) *Visitor {
	return &Visitor{page: page}
}

// RenderBoard publishes a fresh snapshot to the shared page.
func (v *Visitor) RenderBoard(list string, options []board.SelectOption) {
	v.page.Publish(list, options)
}

// ResetForm clears the visitor's signup form.
func (v *Visitor) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = Draft{}
}

// ShowMessage reveals msg to this visitor only.
func (v *Visitor) ShowMessage(msg board.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.message = msg
	v.messageVisible = true
}

// HideMessage hides the visitor's message area.
func (v *Visitor) HideMessage() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messageVisible = false
}

// SetDraft records the form values of a submission before it is dispatched.
func (v *Visitor) SetDraft(d Draft) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = d
}

// pageState combines the shared snapshot with the form and message of v. A
// nil visitor sees a fresh page.
func pageState(page *Page, v *Visitor) PageState {
	var s PageState
	s.List, s.Options = page.Snapshot()
	if v == nil {
		return s
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	s.Draft = v.draft
	s.Message = v.message
	s.MessageVisible = v.messageVisible
	return s
}
