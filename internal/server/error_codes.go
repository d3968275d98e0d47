package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument    = 1000
	ErrCodeInvalidJSON        = 1001
	ErrCodeRequestTooLarge    = 1002
	ErrCodeInvalidID          = 1003
	ErrCodeMissingRequired    = 1004
	ErrCodeInvalidEmail       = 1005
	ErrCodeWeakPassword       = 1006
	ErrCodeEmptyComment       = 1007
	ErrCodeIncompleteIdentity = 1008
	ErrCodeInvalidMultipart   = 1009

	// Domain state (2xxx)
	ErrCodeUserNotFound    = 2001
	ErrCodePostNotFound    = 2002
	ErrCodeCommentNotFound = 2003
	ErrCodeImageNotFound   = 2004
	ErrCodeNoPosts         = 2005
	ErrCodeEmailTaken      = 2101
	ErrCodeConflict        = 2102

	// Auth & limits (3xxx)
	ErrCodeUnauthorized      = 3001
	ErrCodeForbidden         = 3002
	ErrCodeResourceExhausted = 3003

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeBlobFailure  = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 403:
		return ErrCodeForbidden
	case 404:
		return ErrCodePostNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
