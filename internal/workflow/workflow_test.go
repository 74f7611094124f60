package workflow

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/internal/storage"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

type fakeSubmitter struct {
	err      error
	calls    int
	surveyID int
	fields   map[int][]string
	files    []models.Upload
	email    string
}

func (f *fakeSubmitter) Submit(_ context.Context, surveyID int, fields map[int][]string, files []models.Upload, email string) error {
	f.calls++
	f.surveyID = surveyID
	f.fields = fields
	f.files = files
	f.email = email
	return f.err
}

func twoQuestionSurvey() *models.Survey {
	return &models.Survey{
		ID:    7,
		Title: "Feedback",
		Questions: []models.Question{
			{ID: 1, Name: "comment", Text: "Any comments?", Type: models.TypeText, Required: true, Order: 0},
			{ID: 2, Name: "topics", Text: "Topics of interest", Type: models.TypeCheckbox, Order: 1,
				Options: []models.Option{{ID: 10, Value: "A"}, {ID: 11, Value: "B"}}},
		},
	}
}

func newTestWorkflow(t *testing.T, survey *models.Survey, sub Submitter) (*Workflow, *storage.Store) {
	t.Helper()
	drafts, err := storage.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return New(survey, sub, drafts, notify.NewWriter(io.Discard, zap.NewNop()), zap.NewNop()), drafts
}

func TestRequiredQuestionBlocksNext(t *testing.T) {
	wf, _ := newTestWorkflow(t, twoQuestionSurvey(), &fakeSubmitter{})

	err := wf.Next()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Question.ID)
	assert.Equal(t, 0, wf.Step(), "step must not advance")

	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("hello")))
	require.NoError(t, wf.Next())
	assert.Equal(t, 1, wf.Step())
}

func TestFullScenarioSubmit(t *testing.T) {
	sub := &fakeSubmitter{}
	wf, drafts := newTestWorkflow(t, twoQuestionSurvey(), sub)

	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("hello")))
	require.NoError(t, wf.Next())
	require.NoError(t, wf.SetAnswer(2, wf.Answer(2).Toggle("A")))

	// Last question: Next moves into review.
	require.NoError(t, wf.Next())
	require.Equal(t, StateReviewing, wf.State())
	assert.Equal(t, "hello", wf.Answer(1).Display())
	assert.Equal(t, "A", wf.Answer(2).Display())

	require.NoError(t, wf.Submit(context.Background()))
	assert.Equal(t, StateComplete, wf.State())
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, 7, sub.surveyID)
	assert.Equal(t, map[int][]string{1: {"hello"}, 2: {"A"}}, sub.fields)

	var leftover models.AnswerSet
	assert.False(t, drafts.Get("survey-7", &leftover), "draft must be purged on success")
}

func TestSubmitFailureKeepsEverything(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("backend down")}
	wf, drafts := newTestWorkflow(t, twoQuestionSurvey(), sub)

	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("hello")))
	require.NoError(t, wf.Review())

	err := wf.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateReviewing, wf.State(), "workflow returns to review")
	assert.Equal(t, "hello", wf.Answer(1).Display(), "answers survive")

	var draft models.AnswerSet
	require.True(t, drafts.Get("survey-7", &draft), "draft must not be removed")
	assert.Equal(t, "hello", draft[1].Text)

	// Retry without re-entering anything.
	sub.err = nil
	require.NoError(t, wf.Submit(context.Background()))
	assert.Equal(t, StateComplete, wf.State())
	assert.Equal(t, 2, sub.calls)
}

func TestDraftRoundTrip(t *testing.T) {
	drafts, err := storage.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	n := notify.NewWriter(io.Discard, zap.NewNop())
	survey := twoQuestionSurvey()

	first := New(survey, &fakeSubmitter{}, drafts, n, zap.NewNop())
	require.NoError(t, first.SetAnswer(1, models.TextAnswer("persisted")))
	require.NoError(t, first.SetAnswer(2, models.MultiAnswer("A", "B")))
	first.AddFiles(1, models.Upload{Name: "x.pdf", Content: []byte("x")})

	second := New(survey, &fakeSubmitter{}, drafts, n, zap.NewNop())
	assert.Equal(t, models.TextAnswer("persisted"), second.Answer(1))
	assert.Equal(t, []string{"A", "B"}, second.Answer(2).Values)
	assert.Empty(t, second.Files(1), "file attachments are not restorable")
}

func TestCorruptDraftReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "survey-7.json"), []byte("{not json"), 0o600))
	drafts, err := storage.New(dir, zap.NewNop())
	require.NoError(t, err)

	wf := New(twoQuestionSurvey(), &fakeSubmitter{}, drafts, notify.NewWriter(io.Discard, zap.NewNop()), zap.NewNop())
	assert.True(t, wf.Answer(1).IsZero())
}

func TestReviewGateChecksWholeSurvey(t *testing.T) {
	survey := &models.Survey{
		ID: 9,
		Questions: []models.Question{
			{ID: 1, Text: "first", Type: models.TypeText, Required: true, Order: 0},
			{ID: 2, Text: "second", Type: models.TypeText, Order: 1},
		},
	}
	wf, _ := newTestWorkflow(t, survey, &fakeSubmitter{})

	// Skip past the required question by answering, then clear it again.
	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("tmp")))
	require.NoError(t, wf.Next())
	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("")))

	assert.False(t, wf.CanReview())
	err := wf.Next() // last question, optional: gate must still block on Q1
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Question.ID)
	assert.Equal(t, StateAnswering, wf.State())
}

func TestEmailExtractedFromAnswerMap(t *testing.T) {
	survey := &models.Survey{
		ID: 3,
		Questions: []models.Question{
			{ID: 1, Text: "contact", Type: models.TypeEmail, Required: true, Order: 0},
			{ID: 2, Text: "notes", Type: models.TypeText, Order: 1},
		},
	}
	sub := &fakeSubmitter{}
	wf, _ := newTestWorkflow(t, survey, sub)

	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("a@b.c")))
	require.NoError(t, wf.SetAnswer(2, models.TextAnswer("fine")))
	require.NoError(t, wf.Review())
	require.NoError(t, wf.Submit(context.Background()))

	assert.Equal(t, "a@b.c", sub.email)
	assert.NotContains(t, sub.fields, 1, "email question must not ride in the answer fields")
	assert.Equal(t, []string{"fine"}, sub.fields[2])
}

func TestQuestionsWalkedInOrdinalOrder(t *testing.T) {
	survey := &models.Survey{
		ID: 4,
		Questions: []models.Question{
			{ID: 1, Text: "last", Type: models.TypeText, Order: 2},
			{ID: 2, Text: "first", Type: models.TypeText, Order: 0},
			{ID: 3, Text: "middle", Type: models.TypeText, Order: 1},
		},
	}
	wf, _ := newTestWorkflow(t, survey, &fakeSubmitter{})

	assert.Equal(t, "first", wf.Question().Text)
	require.NoError(t, wf.Next())
	assert.Equal(t, "middle", wf.Question().Text)
	require.NoError(t, wf.Back())
	assert.Equal(t, "first", wf.Question().Text)
	assert.Error(t, wf.Back(), "no back from the first question")
}

func TestEditAnswersReturnsToAnswering(t *testing.T) {
	wf, _ := newTestWorkflow(t, twoQuestionSurvey(), &fakeSubmitter{})

	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("hello")))
	require.NoError(t, wf.Review())
	require.NoError(t, wf.EditAnswers())
	assert.Equal(t, StateAnswering, wf.State())
	assert.Equal(t, "hello", wf.Answer(1).Display(), "answers kept across edit")
}

func TestFileHandling(t *testing.T) {
	survey := &models.Survey{
		ID: 5,
		Questions: []models.Question{
			{ID: 1, Text: "certificates", Type: models.TypeFile, Required: true, Order: 0},
		},
	}
	sub := &fakeSubmitter{}
	wf, _ := newTestWorkflow(t, survey, sub)

	assert.Error(t, wf.SetAnswer(1, models.TextAnswer("nope")), "file questions take uploads")

	wf.AddFiles(1, models.Upload{Name: "a.pdf"}, models.Upload{Name: "b.pdf"})
	require.NoError(t, wf.RemoveFile(1, 0))
	assert.Error(t, wf.RemoveFile(1, 5))
	require.Len(t, wf.Files(1), 1)

	require.NoError(t, wf.Review())
	require.NoError(t, wf.Submit(context.Background()))
	require.Len(t, sub.files, 1)
	assert.Equal(t, "b.pdf", sub.files[0].Name)
}

func TestSubmitOnlyFromReview(t *testing.T) {
	wf, _ := newTestWorkflow(t, twoQuestionSurvey(), &fakeSubmitter{})
	assert.Error(t, wf.Submit(context.Background()))
}

func TestProgress(t *testing.T) {
	wf, _ := newTestWorkflow(t, twoQuestionSurvey(), &fakeSubmitter{})
	assert.InDelta(t, 0.5, wf.Progress(), 1e-9)
	require.NoError(t, wf.SetAnswer(1, models.TextAnswer("x")))
	require.NoError(t, wf.Next())
	assert.InDelta(t, 1.0, wf.Progress(), 1e-9)
}
