package models

// Survey is a survey definition as served by the backend.
type Survey struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Questions    []Question `json:"questions,omitempty"`
	IsPublished  bool       `json:"is_published"`
	CreatorID    int        `json:"creator_id,omitempty"`
	DateCreated  string     `json:"date_created,omitempty"`
	DateModified string     `json:"date_modified,omitempty"`
}

// SurveyDraft is a survey definition under construction, shaped for the
// creation endpoint's POST body. It is also the record mirrored to local
// storage while authoring is in progress.
type SurveyDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	IsPublished bool            `json:"is_published"`
	Questions   []QuestionDraft `json:"questions"`
}

// QuestionDraft is one question under construction. Unlike Question, options
// are bare values: the backend assigns option ids on creation.
type QuestionDraft struct {
	Name        string       `json:"name"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	Order       int          `json:"order"`
}
