package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeRegistrationFailed     = "registration_failed"
	ErrCodeLoginFailed            = "login_failed"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Friend errors
	ErrCodeRequestSendFailed = "friend_request_send_failed"
	ErrCodeRequestNotFound   = "friend_request_not_found"

	// Duel errors
	ErrCodeDuelCreationFailed   = "duel_creation_failed"
	ErrCodeDuelNotFound         = "duel_not_found"
	ErrCodeDuelNotPending       = "duel_not_pending"
	ErrCodeDuelFinished         = "duel_finished"
	ErrCodeScoreAlreadyReported = "score_already_reported"
	ErrCodeInvalidDuelID        = "invalid_duel_id"

	// Quiz errors
	ErrCodeSubjectNotFound  = "subject_not_found"
	ErrCodeQuizStartFailed  = "quiz_start_failed"
	ErrCodeResultSaveFailed = "result_save_failed"

	// OAuth errors
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthStartFailed    = "oauth_start_failed"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
