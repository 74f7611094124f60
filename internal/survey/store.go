// Package survey is the survey data store: it fetches survey definitions and
// submits completed responses. Fetches are deduplicated per survey id and
// guarded against stale results arriving after the user moved to another
// survey.
package survey

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Raddames-Tonui/simple-survey-client/internal/api"
	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

// Store caches survey definitions and performs submissions.
type Store struct {
	api    *api.Client
	notify *notify.Notifier
	logger *zap.Logger

	group singleflight.Group

	mu        sync.Mutex
	cache     map[int]*models.Survey
	target    int
	targetReq uuid.UUID
	current   *models.Survey
}

// NewStore creates a survey data store.
func NewStore(client *api.Client, n *notify.Notifier, logger *zap.Logger) *Store {
	return &Store{
		api:    client,
		notify: n,
		logger: logger,
		cache:  make(map[int]*models.Survey),
	}
}

// FetchSurveyQuestions returns the survey definition for surveyID. The call
// is idempotent per id: an already fetched survey is served from the cache,
// and concurrent calls for the same id share a single request. On failure the
// error is surfaced to the user and previously loaded surveys are untouched.
func (s *Store) FetchSurveyQuestions(ctx context.Context, surveyID int) (*models.Survey, error) {
	s.mu.Lock()
	if cached, ok := s.cache[surveyID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(strconv.Itoa(surveyID), func() (any, error) {
		survey, err := s.api.SurveyQuestions(ctx, surveyID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[surveyID] = survey
		s.mu.Unlock()
		return survey, nil
	})
	if err != nil {
		s.notify.Errorf("failed to load survey %d: %v", surveyID, err)
		return nil, err
	}
	return v.(*models.Survey), nil
}

// Load makes surveyID the current target and fetches it. A result that
// completes after the target moved on is returned to the caller but not
// applied as current, so a slow fetch for survey A cannot clobber the view of
// survey B.
func (s *Store) Load(ctx context.Context, surveyID int) (*models.Survey, error) {
	req := uuid.New()
	s.mu.Lock()
	s.target = surveyID
	s.targetReq = req
	s.mu.Unlock()

	survey, err := s.FetchSurveyQuestions(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.targetReq == req {
		s.current = survey
	} else {
		s.logger.Debug("discarding stale survey result",
			zap.Int("survey_id", surveyID), zap.Int("target", s.target))
	}
	return survey, nil
}

// Current returns the survey for the most recently completed Load whose
// target is still current, or nil.
func (s *Store) Current() *models.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Submit sends a completed response. Fields carries discrete transport values
// per question id; list answers arrive as multiple values and are serialized
// as repeated form fields. On failure nothing is reset, so the caller's
// in-progress state survives for a retry.
func (s *Store) Submit(ctx context.Context, surveyID int, fields map[int][]string, files []models.Upload, email string) error {
	sub := api.Submission{
		SurveyID: surveyID,
		Email:    email,
		Fields:   fields,
		Files:    files,
	}
	if err := s.api.SubmitResponse(ctx, sub); err != nil {
		s.notify.Errorf("failed to submit survey: %v", err)
		return err
	}
	s.notify.Successf("survey submitted successfully")
	return nil
}
