package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failed response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func handleAPIError(r *http.Response, errBody []byte) *APIError {
	apiErr := &APIError{
		Status:  r.StatusCode,
		Message: strings.TrimSpace(string(errBody)),
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(r.StatusCode)
		}
		return apiErr
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(errBody, &body); err != nil {
		return apiErr
	}
	apiErr.Code = body.Error
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
