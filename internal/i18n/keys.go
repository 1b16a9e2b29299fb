// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Wines
	KeyWineNotFound = "wine.not_found"
	KeyWineDeleted  = "wine.deleted"

	// Validation
	KeyValidationInvalid = "validation.invalid"
	KeyValidationBody    = "validation.body"

	// Recognition
	KeyFileRequired    = "file.required"
	KeyFileInvalidType = "file.invalid_type"
	KeyFileTooLarge    = "file.too_large"
	KeyUpstreamFailed  = "recognition.upstream_failed"
	KeyUpstreamLimited = "recognition.rate_limited"
	KeyUpstreamDown    = "recognition.unavailable"

	// System
	KeyInternalError    = "system.internal_error"
	KeyRouteNotFound    = "system.route_not_found"
	KeyMethodNotAllowed = "system.method_not_allowed"
	KeyRateLimited      = "system.rate_limited"
	KeyWelcome          = "system.welcome"
)
