package models

import (
	"encoding/json"
	"strconv"
)

// Certificate is a file attached to a submitted response.
type Certificate struct {
	ID       int    `json:"id"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// SurveyResponse is the server-side projection of a submitted response. It is
// read-only to the client: besides the fixed fields, the backend returns one
// arbitrarily named field per answered question, collected here into Fields.
type SurveyResponse struct {
	ResponseID    int
	Fields        map[string]string
	Certificates  []Certificate
	DateResponded string
}

// UnmarshalJSON splits the fixed keys from the question-keyed answer fields.
func (r *SurveyResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Fields = make(map[string]string)
	for key, val := range raw {
		switch key {
		case "response_id":
			if err := json.Unmarshal(val, &r.ResponseID); err != nil {
				return err
			}
		case "certificates":
			if err := json.Unmarshal(val, &r.Certificates); err != nil {
				return err
			}
		case "date_responded":
			if err := json.Unmarshal(val, &r.DateResponded); err != nil {
				return err
			}
		default:
			r.Fields[key] = rawString(val)
		}
	}
	return nil
}

// rawString renders a question field value for display. Answers are usually
// strings but the backend may return numbers for numeric questions.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return string(raw)
}

// ResponsePage is one server-driven page of submitted responses.
type ResponsePage struct {
	Responses   []SurveyResponse
	CurrentPage int
	LastPage    int
	PageSize    int
	TotalCount  int
}
