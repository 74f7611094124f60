package models

// QuestionType enumerates the input types a question can declare.
type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeEmail    QuestionType = "email"
	TypeNumber   QuestionType = "number"
	TypeURL      QuestionType = "url"
	TypeTextarea QuestionType = "textarea"
	TypeCheckbox QuestionType = "checkbox"
	TypeRadio    QuestionType = "radio"
	TypeDate     QuestionType = "date"
	TypeFile     QuestionType = "file"
)

// QuestionTypes lists every supported input type, in the order the authoring
// form offers them.
var QuestionTypes = []QuestionType{
	TypeText, TypeEmail, TypeNumber, TypeURL, TypeTextarea,
	TypeCheckbox, TypeRadio, TypeDate, TypeFile,
}

// Valid reports whether t is one of the supported input types.
func (t QuestionType) Valid() bool {
	for _, k := range QuestionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Multi reports whether answers of this type are lists rather than scalars.
func (t QuestionType) Multi() bool { return t == TypeCheckbox }

// HasOptions reports whether questions of this type carry an option set.
func (t QuestionType) HasOptions() bool { return t == TypeRadio || t == TypeCheckbox }

// Question is a single question within a survey. Order is unique within the
// parent survey and defines render and navigation order.
type Question struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options,omitempty"`
	Order       int          `json:"order"`
}

// Option is one selectable value of a radio or checkbox question.
type Option struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// OptionValues returns the display values of the question's options.
func (q Question) OptionValues() []string {
	vals := make([]string, len(q.Options))
	for i, o := range q.Options {
		vals[i] = o.Value
	}
	return vals
}
