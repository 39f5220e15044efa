package types

// Response is the generic error body written by api.ErrorResponse.
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
