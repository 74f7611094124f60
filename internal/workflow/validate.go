package workflow

import (
	"regexp"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

// emailRx matches local@domain.tld: non-empty local part, non-empty domain,
// at least one dot-separated label after it.
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Valid reports whether the answer satisfies the question's required flag.
// Not-required questions are always valid. A required file question needs at
// least one attachment; a required email must match emailRx; any other
// required type needs a present value, where the string "0" counts as present.
func Valid(q models.Question, a models.Answer, files []models.Upload) bool {
	if !q.Required {
		return true
	}
	switch q.Type {
	case models.TypeFile:
		return len(files) > 0
	case models.TypeEmail:
		return emailRx.MatchString(a.Text)
	default:
		return !a.IsZero()
	}
}
