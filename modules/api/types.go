package api

// ErrorResponse is the error body returned by every failing endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse acknowledges a mutation or an accepted order.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// QuickOrderResponse acknowledges a quick order with the server-side total.
type QuickOrderResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Total     int    `json:"total"`
}

// UploadResponse carries the hosted URL of an uploaded image.
type UploadResponse struct {
	URL string `json:"url"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Modules map[string]ModuleHealth `json:"modules,omitempty"`
}

// ModuleHealth is the health of one registered module.
type ModuleHealth struct {
	Healthy bool           `json:"healthy"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// genericError is the only failure body that crosses the HTTP boundary.
var genericError = ErrorResponse{
	Error:   "server_error",
	Message: "Internal Server Error",
}
