package usecase

import (
	"errors"
	"fmt"
)

// Error carrying the HTTP status the handler should answer with. Handlers
// translate it via writeError; anything else becomes a 500.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// Pagination envelope shared by the list endpoints.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

func newPageMeta(total int64, page, limit int) PageMeta {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
