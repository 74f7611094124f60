package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

// Submission is a completed response ready for the wire. Fields holds the
// discrete transport values per question: list answers contribute one element
// per selected option, serialized as repeated form fields, never joined.
type Submission struct {
	SurveyID int
	Email    string // optional dedicated contact email, extracted by the workflow
	Fields   map[int][]string
	Files    []models.Upload
}

// SubmitResponse uploads a submission as multipart form data.
func (c *Client) SubmitResponse(ctx context.Context, sub Submission) error {
	return c.doMultipart(ctx, http.MethodPut, "/api/questions/responses", func(mw *multipart.Writer) error {
		if err := mw.WriteField("survey_id", strconv.Itoa(sub.SurveyID)); err != nil {
			return fmt.Errorf("write survey_id: %w", err)
		}
		if sub.Email != "" {
			if err := mw.WriteField("email", sub.Email); err != nil {
				return fmt.Errorf("write email: %w", err)
			}
		}

		ids := make([]int, 0, len(sub.Fields))
		for id := range sub.Fields {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			name := fmt.Sprintf("q_%d", id)
			for _, value := range sub.Fields[id] {
				if err := mw.WriteField(name, value); err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
			}
		}

		for _, file := range sub.Files {
			part, err := mw.CreateFormFile("certificates", file.Name)
			if err != nil {
				return fmt.Errorf("create file part: %w", err)
			}
			if _, err := part.Write(file.Content); err != nil {
				return fmt.Errorf("write file part: %w", err)
			}
		}
		return nil
	})
}

type responsePage struct {
	// Older backend revisions report under question_responses, newer ones
	// under survey_responses. Accept both.
	QuestionResponses []models.SurveyResponse `json:"question_responses"`
	SurveyResponses   []models.SurveyResponse `json:"survey_responses"`
	CurrentPage       int                     `json:"current_page"`
	LastPage          int                     `json:"last_page"`
	PageSize          int                     `json:"page_size"`
	TotalCount        int                     `json:"total_count"`
}

// Responses fetches one server-driven page of submitted responses, optionally
// filtered by respondent email.
func (c *Client) Responses(ctx context.Context, page int, emailFilter string) (*models.ResponsePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if emailFilter != "" {
		q.Set("email_address", emailFilter)
	}

	var out responsePage
	path := "/api/questions/responses?" + q.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}

	responses := out.QuestionResponses
	if responses == nil {
		responses = out.SurveyResponses
	}
	return &models.ResponsePage{
		Responses:   responses,
		CurrentPage: out.CurrentPage,
		LastPage:    out.LastPage,
		PageSize:    out.PageSize,
		TotalCount:  out.TotalCount,
	}, nil
}

// Certificate downloads a certificate attachment by id.
func (c *Client) Certificate(ctx context.Context, certID int) ([]byte, error) {
	path := fmt.Sprintf("/api/questions/responses/certificates/%d", certID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download certificate: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read certificate: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newError(resp.StatusCode, data)
	}
	return data, nil
}
