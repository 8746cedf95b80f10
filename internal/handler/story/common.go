package story

import (
	httputil "fable/internal/pkg/http"
)

// ErrorResponse is an alias of the shared error body.
type ErrorResponse = httputil.ErrorResponse
