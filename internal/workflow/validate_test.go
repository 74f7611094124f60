package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Raddames-Tonui/simple-survey-client/internal/models"
)

func TestValidRequiredEmail(t *testing.T) {
	q := models.Question{ID: 1, Type: models.TypeEmail, Required: true}

	cases := []struct {
		answer string
		want   bool
	}{
		{"a@b.c", true},
		{"user.name@surveys.example.com", true},
		{"a@b", false},
		{"a", false},
		{"", false},
		{"a b@c.d", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Valid(q, models.TextAnswer(tc.answer), nil), "answer %q", tc.answer)
	}
}

func TestValidRequiredNumberZero(t *testing.T) {
	q := models.Question{ID: 2, Type: models.TypeNumber, Required: true}

	assert.True(t, Valid(q, models.TextAnswer("0"), nil), "zero is a present answer")
	assert.False(t, Valid(q, models.Answer{}, nil), "unanswered is invalid")
}

func TestValidRequiredFile(t *testing.T) {
	q := models.Question{ID: 3, Type: models.TypeFile, Required: true}

	assert.False(t, Valid(q, models.Answer{}, nil))
	assert.True(t, Valid(q, models.Answer{}, []models.Upload{{Name: "cert.pdf"}}))
}

func TestValidNotRequired(t *testing.T) {
	q := models.Question{ID: 4, Type: models.TypeText}

	assert.True(t, Valid(q, models.Answer{}, nil))
	assert.True(t, Valid(q, models.TextAnswer("anything"), nil))
}

func TestValidRequiredCheckbox(t *testing.T) {
	q := models.Question{ID: 5, Type: models.TypeCheckbox, Required: true}

	assert.False(t, Valid(q, models.MultiAnswer(), nil))
	assert.True(t, Valid(q, models.MultiAnswer("A"), nil))
}
