package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"stagepass/internal/model"
)

// Timeout cuts off handlers that outlive the request budget with a 503
// carrying the standard error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	payload, _ := json.Marshal(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "REQUEST_TIMEOUT",
			Message: "request timed out",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(payload))
	}
}
