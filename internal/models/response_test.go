package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurveyResponseUnmarshalSplitsFields(t *testing.T) {
	payload := `{
		"response_id": 12,
		"date_responded": "2024-03-01 10:00:00",
		"certificates": [{"id": 4, "file_name": "cert.pdf", "file_url": "/files/4"}],
		"full_name": "Jo Doe",
		"years_of_experience": 3,
		"agreed": true
	}`

	var r SurveyResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, 12, r.ResponseID)
	assert.Equal(t, "2024-03-01 10:00:00", r.DateResponded)
	require.Len(t, r.Certificates, 1)
	assert.Equal(t, "cert.pdf", r.Certificates[0].FileName)

	assert.Equal(t, "Jo Doe", r.Fields["full_name"])
	assert.Equal(t, "3", r.Fields["years_of_experience"], "numbers render as strings")
	assert.Equal(t, "true", r.Fields["agreed"])
	assert.NotContains(t, r.Fields, "response_id", "fixed keys stay out of the field map")
}
