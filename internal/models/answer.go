package models

import "strings"

// AnswerKind tags the variant held by an Answer.
type AnswerKind string

const (
	// AnswerText holds a single string value (text, email, number, url,
	// textarea, date and radio questions).
	AnswerText AnswerKind = "text"
	// AnswerMulti holds a list of selected option values (checkbox questions).
	AnswerMulti AnswerKind = "multi"
)

// Answer is one collected answer value, keyed by question id in an AnswerSet.
// Exactly one variant is populated according to Kind.
type Answer struct {
	Kind   AnswerKind `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Values []string   `json:"values,omitempty"`
}

// TextAnswer builds a scalar answer.
func TextAnswer(v string) Answer {
	return Answer{Kind: AnswerText, Text: v}
}

// MultiAnswer builds a list answer.
func MultiAnswer(values ...string) Answer {
	return Answer{Kind: AnswerMulti, Values: values}
}

// IsZero reports whether the answer carries no value at all. The string "0"
// is a value: a numeric question answered with zero counts as answered.
func (a Answer) IsZero() bool {
	switch a.Kind {
	case AnswerMulti:
		return len(a.Values) == 0
	default:
		return a.Text == ""
	}
}

// Contains reports whether a list answer includes value.
func (a Answer) Contains(value string) bool {
	for _, v := range a.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Toggle returns the answer with value added if absent or removed if present.
// Used by checkbox inputs, where selection is membership.
func (a Answer) Toggle(value string) Answer {
	if a.Kind != AnswerMulti {
		a = MultiAnswer()
	}
	for i, v := range a.Values {
		if v == value {
			out := make([]string, 0, len(a.Values)-1)
			out = append(out, a.Values[:i]...)
			out = append(out, a.Values[i+1:]...)
			a.Values = out
			return a
		}
	}
	a.Values = append(append([]string(nil), a.Values...), value)
	return a
}

// Display renders the answer for review screens. List answers are joined for
// display only; the wire format keeps them as discrete values.
func (a Answer) Display() string {
	if a.Kind == AnswerMulti {
		return strings.Join(a.Values, ", ")
	}
	return a.Text
}

// Flatten returns the answer as discrete transport values: one element per
// selected option for list answers, a single element for scalars.
func (a Answer) Flatten() []string {
	if a.Kind == AnswerMulti {
		return a.Values
	}
	return []string{a.Text}
}

// AnswerSet maps question ids to collected answers.
type AnswerSet map[int]Answer

// Upload is an in-memory file handle attached to a file question. Uploads are
// never mirrored to the draft store.
type Upload struct {
	Name    string
	Content []byte
}

// FileSet maps file-question ids to their attached uploads.
type FileSet map[int][]Upload
