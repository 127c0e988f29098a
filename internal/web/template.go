package web

import (
	"html/template"
	"io"
	"strings"

	"github.com/gdg-garage/activity-board/internal/board"
)

var pageTemplate = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<h2>Extracurricular Activities</h2>
</header>
<main>
<section id="activities-container">
<h3>Available Activities</h3>
<form id="unregister-form" method="post" action="/unregister">{{.CSRFField}}
<div id="activities-list">{{.List}}</div>
</form>
</section>
<section id="signup-container">
<h3>Sign Up for an Activity</h3>
<form id="signup-form" method="post" action="/signup">{{.CSRFField}}
<div class="form-group">
<label for="email">Student Email:</label>
<input type="email" id="email" name="email" required placeholder="your-email@mergington.edu" value="{{.Email}}">
</div>
<div class="form-group">
<label for="activity">Select Activity:</label>
<select id="activity" name="activity" required>
{{- range .Options}}
<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
</div>
<button type="submit">Sign Up</button>
</form>
<div id="message" class="{{.MessageClass}}">{{.MessageText}}</div>
</section>
</main>
</body>
</html>
`))

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type pageView struct {
	Title        string
	CSRFField    template.HTML
	List         template.HTML
	Email        string
	Options      []optionView
	MessageClass string
	MessageText  string
}

func renderPage(w io.Writer, title string, state PageState, csrfField template.HTML) error {
	view := pageView{
		Title:     title,
		CSRFField: csrfField,
		// The board escapes every user-supplied string while building the list.
		List:         template.HTML(state.List),
		Email:        state.Draft.Email,
		MessageClass: messageClass(state),
		MessageText:  state.Message.Text,
	}
	for _, o := range state.Options {
		view.Options = append(view.Options, optionView{
			Value:    o.Value,
			Label:    o.Label,
			Selected: o.Value != "" && o.Value == state.Draft.Activity,
		})
	}
	return pageTemplate.Execute(w, view)
}

func messageClass(state PageState) string {
	var classes []string
	if state.Message.Kind != "" {
		classes = append(classes, string(state.Message.Kind))
	}
	if !state.MessageVisible {
		classes = append(classes, "hidden")
	}
	return strings.Join(classes, " ")
}

var _ board.View = (*Visitor)(nil)
