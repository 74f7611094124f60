// Package render maps a question's declared type to an input control and
// normalizes user edits into answer values. It is state-free: a pure function
// of (type, current answer, options). Required-field marking here is advisory
// only; enforcement belongs to the response workflow.
package render

import (
	"fmt"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

// InputKind classifies the control a question renders as.
type InputKind int

const (
	// InputLine is a single text-like input (text, number, url, date, email).
	InputLine InputKind = iota
	// InputMultiline is a free-form multi-line input.
	InputMultiline
	// InputSelectOne is a mutually exclusive option set.
	InputSelectOne
	// InputSelectMany is an independent toggle set.
	InputSelectMany
	// InputFile is a multi-select file picker.
	InputFile
)

// Control describes the input control for one question.
type Control struct {
	Prompt      string
	Description string
	Input       InputKind
	Options     []string
	Required    bool // advisory marker only
	Placeholder string
	Accept      string // file format restriction for InputFile
}

// For returns the control for a question.
func For(q models.Question) Control {
	c := Control{
		Prompt:      q.Text,
		Description: q.Description,
		Required:    q.Required,
	}
	switch q.Type {
	case models.TypeTextarea:
		c.Input = InputMultiline
	case models.TypeRadio:
		c.Input = InputSelectOne
		c.Options = q.OptionValues()
	case models.TypeCheckbox:
		c.Input = InputSelectMany
		c.Options = q.OptionValues()
	case models.TypeFile:
		c.Input = InputFile
		c.Accept = ".pdf"
	case models.TypeEmail:
		c.Input = InputLine
		c.Placeholder = "example@email.com"
	case models.TypeURL:
		c.Input = InputLine
		c.Placeholder = "https://example.com"
	default: // text, number, date
		c.Input = InputLine
	}
	return c
}

// Normalize converts a raw scalar edit into the answer value for q. Radio
// input must match one of the question's option values. File questions have
// no answer value at all: uploads are routed to the file map instead.
func Normalize(q models.Question, raw string) (models.Answer, error) {
	switch q.Type {
	case models.TypeFile:
		return models.Answer{}, fmt.Errorf("question %q takes file uploads, not a value", q.Name)
	case models.TypeCheckbox:
		return models.Answer{}, fmt.Errorf("question %q takes toggled options; use Toggle", q.Name)
	case models.TypeRadio:
		for _, opt := range q.Options {
			if opt.Value == raw {
				return models.TextAnswer(raw), nil
			}
		}
		return models.Answer{}, fmt.Errorf("%q is not an option of question %q", raw, q.Name)
	default:
		return models.TextAnswer(raw), nil
	}
}

// Toggle flips membership of value in a checkbox answer.
func Toggle(q models.Question, current models.Answer, value string) (models.Answer, error) {
	if q.Type != models.TypeCheckbox {
		return models.Answer{}, fmt.Errorf("question %q is not a checkbox", q.Name)
	}
	for _, opt := range q.Options {
		if opt.Value == value {
			return current.Toggle(value), nil
		}
	}
	return models.Answer{}, fmt.Errorf("%q is not an option of question %q", value, q.Name)
}
