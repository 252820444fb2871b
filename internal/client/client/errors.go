package client

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrImageRejected = errors.New("image was not accepted")
)

// APIError is a failure reported by the server.
type APIError struct {
	Message string
	Status  int
	Details []string
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type errorDetail struct {
	Message string `json:"message"`
}

func details(d []errorDetail) []string {
	out := make([]string, 0, len(d))
	for _, x := range d {
		out = append(out, x.Message)
	}
	return out
}
