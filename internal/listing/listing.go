// Package listing backs the collection views: published surveys (with a
// featured subset for the home page), the creator's own surveys, and the
// server-paginated response list with certificate actions.
package listing

import (
	"context"

	"go.uber.org/zap"

	"github.com/Raddames-Tonui/simple-survey-client/internal/api"
	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
	"github.com/Raddames-Tonui/simple-survey-client/pkg/notify"
)

// DefaultFeaturedCount is how many published surveys the featured view shows.
const DefaultFeaturedCount = 3

// Service fetches collections for display.
type Service struct {
	api      *api.Client
	notify   *notify.Notifier
	logger   *zap.Logger
	featured int
}

// New creates a listing service. featured <= 0 falls back to the default.
func New(client *api.Client, n *notify.Notifier, logger *zap.Logger, featured int) *Service {
	if featured <= 0 {
		featured = DefaultFeaturedCount
	}
	return &Service{api: client, notify: n, logger: logger, featured: featured}
}

// Published fetches all surveys and filters to the published ones.
func (s *Service) Published(ctx context.Context) ([]models.Survey, error) {
	surveys, err := s.api.ListSurveys(ctx)
	if err != nil {
		s.notify.Errorf("failed to fetch surveys: %v", err)
		return nil, err
	}
	published := surveys[:0:0]
	for _, sv := range surveys {
		if sv.IsPublished {
			published = append(published, sv)
		}
	}
	return published, nil
}

// Featured returns the published listing truncated to the featured subset.
func (s *Service) Featured(ctx context.Context) ([]models.Survey, error) {
	published, err := s.Published(ctx)
	if err != nil {
		return nil, err
	}
	if len(published) > s.featured {
		published = published[:s.featured]
	}
	return published, nil
}

// Mine fetches the surveys owned by the bearer token's account.
func (s *Service) Mine(ctx context.Context, accessToken string) ([]models.Survey, error) {
	surveys, err := s.api.ListUserSurveys(ctx, accessToken)
	if err != nil {
		s.notify.Errorf("failed to fetch your surveys: %v", err)
		return nil, err
	}
	return surveys, nil
}

// Responses fetches one page of submitted responses, optionally filtered by
// respondent email. Pagination is entirely server-driven.
func (s *Service) Responses(ctx context.Context, page int, emailFilter string) (*models.ResponsePage, error) {
	if page < 1 {
		page = 1
	}
	result, err := s.api.Responses(ctx, page, emailFilter)
	if err != nil {
		s.notify.Errorf("failed to fetch responses: %v", err)
		return nil, err
	}
	return result, nil
}

// DownloadCertificate fetches a certificate attachment's bytes by id.
func (s *Service) DownloadCertificate(ctx context.Context, certID int) ([]byte, error) {
	data, err := s.api.Certificate(ctx, certID)
	if err != nil {
		s.notify.Errorf("failed to download certificate %d: %v", certID, err)
		return nil, err
	}
	return data, nil
}
