package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

type surveyList struct {
	Surveys []models.Survey `json:"surveys"`
}

// ListSurveys fetches every survey visible to anonymous users.
func (c *Client) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	var out surveyList
	if err := c.doJSON(ctx, http.MethodGet, "/api/surveys", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Surveys, nil
}

// ListUserSurveys fetches the surveys owned by the bearer token's account.
func (c *Client) ListUserSurveys(ctx context.Context, accessToken string) ([]models.Survey, error) {
	var out surveyList
	err := c.doJSON(ctx, http.MethodGet, "/api/surveys/user-surveys", accessToken, nil, &out)
	if err != nil {
		return nil, err
	}
	return out.Surveys, nil
}

// CreateSurvey posts a complete survey definition and returns the new id.
func (c *Client) CreateSurvey(ctx context.Context, accessToken string, draft models.SurveyDraft) (int, error) {
	var out struct {
		SurveyID int `json:"survey_id"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/surveys", accessToken, draft, &out)
	if err != nil {
		return 0, err
	}
	return out.SurveyID, nil
}

// SurveyQuestions fetches a survey's metadata and its question list, ordered
// by each question's ordinal position.
func (c *Client) SurveyQuestions(ctx context.Context, surveyID int) (*models.Survey, error) {
	var out struct {
		SurveyTitle       string            `json:"survey_title"`
		SurveyDescription string            `json:"survey_description"`
		Questions         []models.Question `json:"questions"`
	}
	path := fmt.Sprintf("/api/surveys/%d/questions", surveyID)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}

	sort.SliceStable(out.Questions, func(i, j int) bool {
		return out.Questions[i].Order < out.Questions[j].Order
	})
	return &models.Survey{
		ID:          surveyID,
		Title:       out.SurveyTitle,
		Description: out.SurveyDescription,
		Questions:   out.Questions,
	}, nil
}
