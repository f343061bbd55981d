package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

// createContributionRequest binds both multipart form fields and JSON bodies.
type createContributionRequest struct {
	Title       string `json:"title"       form:"title"       validate:"required,max=200"`
	Category    string `json:"category"    form:"category"    validate:"required,max=100"`
	Link        string `json:"link"        form:"link"        validate:"max=2048"`
	Description string `json:"description" form:"description" validate:"max=5000"`
	Date        string `json:"date"        form:"date"        validate:"max=32"`
}

// updateContributionRequest distinguishes absent fields (nil) from empty ones.
// Emptiness of title and category is checked by the service.
type updateContributionRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Category    *string `json:"category"    validate:"omitempty,max=100"`
	Link        *string `json:"link"        validate:"omitempty,max=2048"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Date        *string `json:"date"        validate:"omitempty,max=32"`
}

// screenshotField is the multipart field carrying the optional attachment.
const screenshotField = "screenshot"
