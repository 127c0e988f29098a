package board

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdg-garage/activity-board/internal/activities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// LoadFailureMarkup replaces the list when the activities cannot be loaded.
	LoadFailureMarkup = "<p>Failed to load activities. Please try again later.</p>"

	// LoadingMarkup is shown before the first load completes.
	LoadingMarkup = "<p>Loading activities...</p>"

	// RemovalField is the form field carrying a removal control's
	// ParticipantKey.
	RemovalField = "participant"

	placeholderLabel = "-- Select an activity --"
)

// SelectOption is one entry of the activity selection control. Value and
// Label are raw text; the View escapes them.
type SelectOption struct {
	Value string
	Label string
}

// Placeholder is the empty first option of the selection control.
func Placeholder() SelectOption {
	return SelectOption{Value: "", Label: placeholderLabel}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text for use in element content and quoted attributes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Initial returns the avatar glyph for an email: the upper-cased first
// character of the first non-empty segment of the local part, split on '.',
// '_' and '-'. It returns "?" when nothing resolves.
func Initial(email string) string {
	local, _, _ := strings.Cut(email, "@")
	token := local
	segments := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(segments) > 0 {
		token = segments[0]
	}
	if token == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(token)
	// Casers keep state, so one is built per call.
	return cases.Upper(language.Und).String(string(r))
}

// RenderSnapshot builds the list markup and the selection options for one
// fetched collection, preserving its order.
func RenderSnapshot(list []activities.Activity) (string, []SelectOption) {
	var b strings.Builder
	options := make([]SelectOption, 0, len(list)+1)
	options = append(options, Placeholder())

	for _, a := range list {
		renderCard(&b, a)
		options = append(options, SelectOption{Value: a.Name, Label: a.Name})
	}
	return b.String(), options
}

func renderCard(b *strings.Builder, a activities.Activity) {
	b.WriteString(`<div class="activity-card">`)
	fmt.Fprintf(b, "<h4>%s</h4>", EscapeHTML(a.Name))
	fmt.Fprintf(b, "<p>%s</p>", EscapeHTML(a.Description))
	fmt.Fprintf(b, "<p><strong>Schedule:</strong> %s</p>", EscapeHTML(a.Schedule))
	fmt.Fprintf(b, "<p><strong>Availability:</strong> %d spots left</p>", a.SpotsLeft())
	renderParticipants(b, a)
	b.WriteString("</div>")
}

func renderParticipants(b *strings.Builder, a activities.Activity) {
	if len(a.Participants) == 0 {
		b.WriteString(`<div class="participants empty">No participants yet</div>`)
		return
	}

	name := EscapeHTML(a.Name)
	b.WriteString(`<div class="participants" aria-live="polite"><h5>Participants</h5><ul>`)
	for _, p := range a.Participants {
		email := EscapeHTML(p)
		key := EscapeHTML(ParticipantKey{Activity: a.Name, Email: p}.Encode())
		fmt.Fprintf(b,
			`<li data-activity="%s" data-email="%s"><span class="avatar">%s</span>%s`+
				`<button class="delete-btn" type="submit" name="%s" value="%s" aria-label="Unregister %s">✖</button></li>`,
			name, email, EscapeHTML(Initial(p)), email, RemovalField, key, email)
	}
	b.WriteString("</ul></div>")
}
