package dto

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message" example:"Class not found"`
}

// MessageResponse is returned by operations that have nothing else to report
type MessageResponse struct {
	Message string `json:"message" example:"Left class"`
}
