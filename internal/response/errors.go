package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrPredikantOnly   ErrCode = "PREDIKANT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrCourseNotFound     ErrCode = "COURSE_NOT_FOUND"
	ErrCourseNotPublished ErrCode = "COURSE_NOT_PUBLISHED"
	ErrLessonNotFound     ErrCode = "LESSON_NOT_FOUND"
	ErrConflict           ErrCode = "CONFLICT"

	// ─── Player ────────────────────────────────────────────────────────
	ErrLessonTypeMismatch ErrCode = "LESSON_TYPE_MISMATCH"
	ErrIncompleteAnswers  ErrCode = "INCOMPLETE_ANSWERS"
	ErrNoQuestions        ErrCode = "NO_QUESTIONS"
	ErrEmptySubmission    ErrCode = "EMPTY_SUBMISSION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "E-pos of wagwoord is verkeerd."
	case ErrSessionActive:
		return "Jy is reeds op 'n ander toestel aangemeld."
	case ErrSessionInvalidated:
		return "Jou sessie het verval. Meld asseblief weer aan."
	case ErrTokenRequired:
		return "Verifikasietoken word vereis."
	case ErrTokenInvalid:
		return "Verifikasietoken is ongeldig."
	case ErrTokenExpired:
		return "Verifikasietoken het verval."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Jy het nie toestemming om hierdie hulpbron te gebruik nie."
	case ErrAdminAccessOnly:
		return "Hierdie hulpbron is beperk tot administrateurs."
	case ErrPredikantOnly:
		return "Hierdie hulpbron is beperk tot predikante."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasie het misluk. Gaan asseblief jou invoer na."
	case ErrInvalidID:
		return "Ongeldige ID-formaat."
	case ErrInvalidPayload:
		return "Ongeldige versoeklading."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Hulpbron nie gevind nie."
	case ErrCourseNotFound:
		return "Kursus nie gevind nie."
	case ErrCourseNotPublished:
		return "Hierdie kursus is nog nie gepubliseer nie."
	case ErrLessonNotFound:
		return "Les nie gevind nie."
	case ErrConflict:
		return "Hulpbron bestaan reeds."

	// ─── Player ────────────────────────────────────────────────────────
	case ErrLessonTypeMismatch:
		return "Hierdie aksie pas nie by die lestipe nie."
	case ErrIncompleteAnswers:
		return "Beantwoord asseblief al die vrae voordat jy indien."
	case ErrNoQuestions:
		return "Hierdie toets het geen vrae nie."
	case ErrEmptySubmission:
		return "'n Teksantwoord of 'n lêer word vereis."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Te veel versoeke. Probeer asseblief later weer."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "'n Interne bedienerfout het voorgekom."
	default:
		return "'n Onverwagte fout het voorgekom."
	}
}
