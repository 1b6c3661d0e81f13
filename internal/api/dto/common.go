package dto

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
