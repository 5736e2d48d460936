package client

import (
	"encoding/json"
	"fmt"

	"resty.dev/v3"
)

// APIError is a non-2xx answer from the backend.
// Message comes from the {success:false, message} body when present.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
	}

	var body errorBody
	if err := json.Unmarshal([]byte(resp.String()), &body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
