// Package respond writes the JSON envelope shared by every endpoint:
// a boolean status flag, an optional message, and either a data payload
// or a field error map.
package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/taskmaster-go/apperror"
)

// Envelope is the success response body.
type Envelope struct {
	Status  bool   `json:"status" example:"true"`
	Message string `json:"message,omitempty" example:"Task created successfully"`
	Data    any    `json:"data,omitempty"`
}

// JSON serializes body and writes it with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("respond: encode response: %v", err)
	}
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Status: true, Message: message, Data: data})
}

// Error converts err into the error envelope. Errors that are not
// *apperror.AppError are treated as internal errors. Server errors are
// logged with the request id; their cause never reaches the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}

	if appErr.IsServerError() {
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, appErr)
	}

	JSON(w, appErr.StatusCode(), appErr.ToResponse())
}
