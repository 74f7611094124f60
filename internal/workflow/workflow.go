// Package workflow drives a user through answering one survey: per-question
// steps with validation, a review screen, submission with cleanup, and a
// draft mirrored to local storage after every mutation so a restart resumes
// where the user left off.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

// State is the workflow's position in its lifecycle.
type State int

const (
	// StateAnswering collects answers one question at a time.
	StateAnswering State = iota
	// StateReviewing shows all collected answers before commit.
	StateReviewing
	// StateSubmitting has an in-flight submission.
	StateSubmitting
	// StateComplete is terminal: the draft is purged and a confirmation shown.
	StateComplete
)

// Submitter performs the final submission. Satisfied by *survey.Store.
type Submitter interface {
	Submit(ctx context.Context, surveyID int, fields map[int][]string, files []models.Upload, email string) error
}

// ValidationError blocks a state transition on an unanswered required question.
type ValidationError struct {
	Question models.Question
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please answer the required question %q before proceeding", e.Question.Text)
}

var (
	errNotAnswering = errors.New("not collecting answers")
	errNotReviewing = errors.New("not on the review screen")
)

// Workflow is one response session over a loaded survey.
type Workflow struct {
	survey    *models.Survey
	questions []models.Question
	store     Submitter
	drafts    *storage.Store
	notify    *notify.Notifier
	logger    *zap.Logger

	answers models.AnswerSet
	files   models.FileSet
	step    int
	state   State
}

func draftKey(surveyID int) string { return fmt.Sprintf("survey-%d", surveyID) }

// New starts a response session for a loaded survey. Questions are walked in
// ordinal order. Any draft persisted for this survey id is restored; file
// attachments are not restorable by construction and start empty.
func New(survey *models.Survey, store Submitter, drafts *storage.Store, n *notify.Notifier, logger *zap.Logger) *Workflow {
	questions := append([]models.Question(nil), survey.Questions...)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})

	w := &Workflow{
		survey:    survey,
		questions: questions,
		store:     store,
		drafts:    drafts,
		notify:    n,
		logger:    logger,
		answers:   make(models.AnswerSet),
		files:     make(models.FileSet),
	}
	if drafts.Get(draftKey(survey.ID), &w.answers) {
		logger.Debug("draft restored",
			zap.Int("survey_id", survey.ID), zap.Int("answers", len(w.answers)))
	}
	return w
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Step returns the current question index.
func (w *Workflow) Step() int { return w.step }

// Questions returns the survey's questions in navigation order.
func (w *Workflow) Questions() []models.Question { return w.questions }

// Question returns the question at the current step.
func (w *Workflow) Question() models.Question { return w.questions[w.step] }

// Progress returns the fraction of steps reached, for progress display.
func (w *Workflow) Progress() float64 {
	if len(w.questions) == 0 {
		return 0
	}
	return float64(w.step+1) / float64(len(w.questions))
}

// Answer returns the collected answer for a question id.
func (w *Workflow) Answer(questionID int) models.Answer { return w.answers[questionID] }

// Files returns the uploads attached to a file question.
func (w *Workflow) Files(questionID int) []models.Upload { return w.files[questionID] }

// SetAnswer records an answer and mirrors the draft to local storage. The
// draft write is ordered after the in-memory update and is never skipped.
// File questions take uploads, not answer values.
func (w *Workflow) SetAnswer(questionID int, a models.Answer) error {
	q, ok := w.questionByID(questionID)
	if !ok {
		return fmt.Errorf("no question with id %d", questionID)
	}
	if q.Type == models.TypeFile {
		return fmt.Errorf("question %q takes file uploads", q.Name)
	}
	w.answers[questionID] = a
	w.saveDraft()
	return nil
}

// AddFiles attaches uploads to a file question. Uploads live in memory only.
func (w *Workflow) AddFiles(questionID int, uploads ...models.Upload) {
	w.files[questionID] = append(w.files[questionID], uploads...)
}

// RemoveFile detaches the upload at index from a file question.
func (w *Workflow) RemoveFile(questionID, index int) error {
	attached := w.files[questionID]
	if index < 0 || index >= len(attached) {
		return fmt.Errorf("no file at index %d for question %d", index, questionID)
	}
	w.files[questionID] = append(attached[:index:index], attached[index+1:]...)
	return nil
}

// Next advances to the following question. A required current question must
// validate first. On the last question Next moves to review instead, which
// additionally requires every required question in the survey to validate.
func (w *Workflow) Next() error {
	if w.state != StateAnswering {
		return errNotAnswering
	}
	q := w.Question()
	if !w.valid(q) {
		err := &ValidationError{Question: q}
		w.notify.Errorf("%v", err)
		return err
	}
	if w.step == len(w.questions)-1 {
		return w.Review()
	}
	w.step++
	return nil
}

// Back returns to the previous question. Available whenever step > 0.
func (w *Workflow) Back() error {
	if w.state != StateAnswering {
		return errNotAnswering
	}
	if w.step == 0 {
		return errors.New("already at the first question")
	}
	w.step--
	return nil
}

// Review transitions to the review screen. The gate is that every required
// question across the whole survey validates, not just the current one.
func (w *Workflow) Review() error {
	if w.state != StateAnswering {
		return errNotAnswering
	}
	for _, q := range w.questions {
		if !w.valid(q) {
			err := &ValidationError{Question: q}
			w.notify.Errorf("%v", err)
			return err
		}
	}
	w.state = StateReviewing
	return nil
}

// CanReview reports whether the review gate would pass; it backs the review
// control's enabled state.
func (w *Workflow) CanReview() bool {
	for _, q := range w.questions {
		if !w.valid(q) {
			return false
		}
	}
	return true
}

// EditAnswers returns from review to in-progress editing without resetting
// any answers.
func (w *Workflow) EditAnswers() error {
	if w.state != StateReviewing {
		return errNotReviewing
	}
	w.state = StateAnswering
	return nil
}

// Submit performs the final submission. Answers are transformed to the
// transport shape: list answers become discrete repeated values, the contact
// email question is extracted into its dedicated field, and per-question file
// lists are flattened into one ordered list. On success the draft is purged
// and in-memory state reset; on failure the workflow returns to review with
// everything intact so the user can retry.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.state != StateReviewing {
		return errNotReviewing
	}
	w.state = StateSubmitting

	fields := make(map[int][]string, len(w.answers))
	var email string
	for id, a := range w.answers {
		q, ok := w.questionByID(id)
		if !ok {
			// Stale draft entry from an older revision of the survey.
			w.logger.Debug("dropping answer for unknown question", zap.Int("question_id", id))
			continue
		}
		if q.Type == models.TypeEmail {
			email = a.Display()
			continue
		}
		fields[id] = a.Flatten()
	}

	var uploads []models.Upload
	ids := make([]int, 0, len(w.files))
	for id := range w.files {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		uploads = append(uploads, w.files[id]...)
	}

	if err := w.store.Submit(ctx, w.survey.ID, fields, uploads, email); err != nil {
		w.state = StateReviewing
		return err
	}

	if err := w.drafts.Delete(draftKey(w.survey.ID)); err != nil {
		w.logger.Warn("purge draft", zap.Error(err))
	}
	w.answers = make(models.AnswerSet)
	w.files = make(models.FileSet)
	w.step = 0
	w.state = StateComplete
	return nil
}

func (w *Workflow) valid(q models.Question) bool {
	return Valid(q, w.answers[q.ID], w.files[q.ID])
}

func (w *Workflow) questionByID(id int) (models.Question, bool) {
	for _, q := range w.questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

func (w *Workflow) saveDraft() {
	if err := w.drafts.Put(draftKey(w.survey.ID), w.answers); err != nil {
		w.logger.Warn("persist draft", zap.Error(err))
	}
}
