// Package authoring composes a new survey definition client-side: a survey
// form, a scratch question form, an ordered question list with reordering,
// and a single token-gated submission. The whole in-progress form is mirrored
// to local storage so navigating away does not lose authoring progress.
package authoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

const draftKey = "survey_draft"

// ErrNotAuthenticated is returned when submission is attempted without an
// access token. The builder refuses to call the backend at all in that case.
var ErrNotAuthenticated = errors.New("you must be logged in to create a survey")

// Creator posts completed survey definitions. Satisfied by *api.Client.
type Creator interface {
	CreateSurvey(ctx context.Context, accessToken string, draft models.SurveyDraft) (int, error)
}

// Builder is one authoring session.
type Builder struct {
	api    Creator
	drafts *storage.Store
	notify *notify.Notifier
	logger *zap.Logger

	draft   models.SurveyDraft
	scratch models.QuestionDraft
}

// New starts an authoring session, restoring any persisted authoring draft.
func New(creator Creator, drafts *storage.Store, n *notify.Notifier, logger *zap.Logger) *Builder {
	b := &Builder{
		api:     creator,
		drafts:  drafts,
		notify:  n,
		logger:  logger,
		scratch: emptyScratch(),
	}
	if drafts.Get(draftKey, &b.draft) {
		logger.Debug("authoring draft restored", zap.Int("questions", len(b.draft.Questions)))
	}
	return b
}

func emptyScratch() models.QuestionDraft {
	return models.QuestionDraft{Type: models.TypeText}
}

// Draft returns the in-progress survey definition.
func (b *Builder) Draft() models.SurveyDraft { return b.draft }

// Scratch returns the in-progress new-question form.
func (b *Builder) Scratch() models.QuestionDraft { return b.scratch }

// SetTitle updates the survey title.
func (b *Builder) SetTitle(title string) {
	b.draft.Title = title
	b.persist()
}

// SetDescription updates the survey description.
func (b *Builder) SetDescription(description string) {
	b.draft.Description = description
	b.persist()
}

// SetPublished updates the publish flag.
func (b *Builder) SetPublished(published bool) {
	b.draft.IsPublished = published
	b.persist()
}

// UpdateScratch replaces the scratch question form. The declared type must be
// one of the supported input types.
func (b *Builder) UpdateScratch(q models.QuestionDraft) error {
	if !q.Type.Valid() {
		return fmt.Errorf("unsupported question type %q", q.Type)
	}
	if !q.Type.HasOptions() {
		q.Options = nil
	}
	b.scratch = q
	return nil
}

// AddOption appends an empty editable option slot to the scratch question.
// Options are editable only for radio and checkbox types.
func (b *Builder) AddOption() error {
	if !b.scratch.Type.HasOptions() {
		return fmt.Errorf("question type %q has no options", b.scratch.Type)
	}
	b.scratch.Options = append(b.scratch.Options, "")
	return nil
}

// SetOption edits the option slot at index.
func (b *Builder) SetOption(index int, value string) error {
	if !b.scratch.Type.HasOptions() {
		return fmt.Errorf("question type %q has no options", b.scratch.Type)
	}
	if index < 0 || index >= len(b.scratch.Options) {
		return fmt.Errorf("no option at index %d", index)
	}
	b.scratch.Options[index] = value
	return nil
}

// AddQuestion appends the scratch form's current values to the question list
// with the next ordinal, then clears the scratch form. A question needs at
// minimum a machine name and a text prompt.
func (b *Builder) AddQuestion() error {
	if b.scratch.Name == "" || b.scratch.Text == "" {
		return errors.New("a question needs a name and a text prompt")
	}
	q := b.scratch
	q.Order = len(b.draft.Questions)
	b.draft.Questions = append(b.draft.Questions, q)
	b.scratch = emptyScratch()
	b.persist()
	return nil
}

// Move reorders the question list: remove at src, insert at dst. Ordinals are
// reassigned from final list order at submit time, not here.
func (b *Builder) Move(src, dst int) error {
	n := len(b.draft.Questions)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("move %d -> %d out of range", src, dst)
	}
	qs := b.draft.Questions
	moved := qs[src]
	qs = append(qs[:src], qs[src+1:]...)
	qs = append(qs[:dst], append([]models.QuestionDraft{moved}, qs[dst:]...)...)
	b.draft.Questions = qs
	b.persist()
	return nil
}

// Submit posts the full survey definition under the caller's bearer token and
// returns the new survey id. Submission is refused client-side when no token
// is present. On success the persisted draft is cleared and the form reset;
// on failure everything is left intact.
func (b *Builder) Submit(ctx context.Context, accessToken string) (int, error) {
	if accessToken == "" {
		b.notify.Errorf("%v", ErrNotAuthenticated)
		return 0, ErrNotAuthenticated
	}

	draft := b.draft
	draft.Questions = append([]models.QuestionDraft(nil), b.draft.Questions...)
	for i := range draft.Questions {
		draft.Questions[i].Order = i
	}

	id, err := b.api.CreateSurvey(ctx, accessToken, draft)
	if err != nil {
		b.notify.Errorf("failed to create survey: %v", err)
		return 0, err
	}

	b.reset()
	b.notify.Successf("survey created with id %d", id)
	return id, nil
}

// Cancel clears the persisted authoring draft and resets the form.
func (b *Builder) Cancel() {
	b.reset()
}

func (b *Builder) reset() {
	b.draft = models.SurveyDraft{}
	b.scratch = emptyScratch()
	if err := b.drafts.Delete(draftKey); err != nil {
		b.logger.Warn("clear authoring draft", zap.Error(err))
	}
}

func (b *Builder) persist() {
	if err := b.drafts.Put(draftKey, b.draft); err != nil {
		b.logger.Warn("persist authoring draft", zap.Error(err))
	}
}
