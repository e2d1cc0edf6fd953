package apperror

// Stable codes returned in the "code" field of every response.
const (
	CodeSuccess              = "SUCCESS"
	CodeBadRequest           = "BAD_REQUEST"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeUnauthorizedAccess   = "UNAUTHORIZED_ACCESS"
	CodeForbiddenAccess      = "FORBIDDEN_ACCESS"
	CodeNotFound             = "NOT_FOUND"
	CodeRouteNotFound        = "ROUTE_NOT_FOUND"
	CodeInternalServerError  = "INTERNAL_SERVER_ERROR"
	CodeCredentialsTaken     = "CREDENTIALS_TAKEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeIncorrectPassword    = "INCORRECT_PASSWORD"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeSponsorNotFound      = "SPONSOR_NOT_FOUND"
	CodeSecretNotFound       = "SECRET_NOT_FOUND"
	CodeSecretExpired        = "SECRET_EXPIRED"
	CodeInvalidSecret        = "INVALID_SECRET"
	CodeInvalidOTP           = "INVALID_OTP"
	CodeEmailAlreadyVerified = "EMAIL_ALREADY_VERIFIED"
)
