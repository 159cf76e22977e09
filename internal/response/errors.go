package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials      ErrCode = "INVALID_CREDENTIALS"
	ErrInvalidAdminCredentials ErrCode = "INVALID_ADMIN_CREDENTIALS"
	ErrInvalidSecretKey        ErrCode = "INVALID_SECRET_KEY"
	ErrTokenRequired           ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid            ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation         ErrCode = "VALIDATION_ERROR"
	ErrMissingRequired    ErrCode = "MISSING_REQUIRED"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrPasswordMismatch   ErrCode = "PASSWORD_MISMATCH"
	ErrInvalidDesignation ErrCode = "INVALID_DESIGNATION"
	ErrInvalidTimeSlot    ErrCode = "INVALID_TIME_SLOT"
	ErrInvalidDutyType    ErrCode = "INVALID_DUTY_TYPE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrFacultyNotFound ErrCode = "FACULTY_NOT_FOUND"
	ErrAdminNotFound   ErrCode = "ADMIN_NOT_FOUND"
	ErrEmailTaken      ErrCode = "EMAIL_TAKEN"
	ErrFacultyIDTaken  ErrCode = "FACULTY_ID_TAKEN"

	// ─── Booking ───────────────────────────────────────────────────────
	ErrSlotAlreadyBooked ErrCode = "SLOT_ALREADY_BOOKED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrImageCleanup    ErrCode = "IMAGE_CLEANUP_FAILED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
// The wording matches what the portal frontend displays verbatim.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid Faculty ID or Password!"
	case ErrInvalidAdminCredentials:
		return "Invalid Admin ID or Password!"
	case ErrInvalidSecretKey:
		return "Invalid Secret Key!"
	case ErrTokenRequired:
		return "Unauthorized"
	case ErrTokenInvalid:
		return "Invalid or expired token"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrAdminAccessOnly:
		return "Admin access required"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "All fields are required!"
	case ErrMissingRequired:
		return "Missing required fields!"
	case ErrInvalidPayload:
		return "Invalid request payload!"
	case ErrPasswordMismatch:
		return "Passwords do not match!"
	case ErrInvalidDesignation:
		return "Invalid designation!"
	case ErrInvalidTimeSlot:
		return "Invalid time slot!"
	case ErrInvalidDutyType:
		return "Invalid duty type!"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found!"
	case ErrFacultyNotFound:
		return "Faculty not found!"
	case ErrAdminNotFound:
		return "Admin not found!"
	case ErrEmailTaken:
		return "Email already exists!"
	case ErrFacultyIDTaken:
		return "Faculty ID already exists!"

	// ─── Booking ───────────────────────────────────────────────────────
	case ErrSlotAlreadyBooked:
		return "You have already booked a duty for this slot!"

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrUnsupportedFile:
		return "Unsupported file type!"
	case ErrFileTooLarge:
		return "File too large!"
	case ErrImageCleanup:
		return "Error deleting old image"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests, please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal Server Error"
	default:
		return "Something went wrong."
	}
}
