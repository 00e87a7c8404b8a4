package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// OptionsResponse lists the update options a client may select.
type OptionsResponse struct {
	Options    []string `json:"options" example:"deactivate,reprice"`
	Restricted bool     `json:"restricted" example:"true"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool        `json:"success" example:"false"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error"`
}
