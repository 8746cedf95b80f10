package http

// ErrorResponse is the error body shared by every API endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`             // non-zero error code
	Message string `json:"message"`          // human-readable message
	Detail  string `json:"detail,omitempty"` // optional detail
}

// SuccessResponse is the generic success envelope used by endpoints that
// have no endpoint-specific response shape.
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a success envelope.
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    0,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse builds an error body.
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}
