package errors

const (
	InvalidTokenError         = "Token is invalid"
	InvalidUserTokenError     = "Invalid user token"
	ExpiredTokenError         = "Verification token has expired"
	UsernameExist             = "Username already exists"
	EmailAlreadyExist         = "Email already exists in database"
	InvalidCredentials        = "Invalid username or password"
	NotVerificatedUser        = "User wasn't verified yet"
	InvalidResendMailError    = "Invalid resend mail"
	NotMatchingPasswordsError = "Passwords do not match"
	InvalidRequestFormatError = "Invalid request format"
	DatabaseError             = "Database error"

	MatchmakingNotFound = "User, preferences, or location not found."

	NotChatParticipant    = "User is not a participant of this chat"
	ChatAlreadyClosed     = "Chat is not open"
	NotCatOwner           = "User is not the owner of this cat"
	AdoptionAlreadyClosed = "Adoption is already completed"
	UserHasPublishedCats  = "Account still has published cats"
	GeocoderError         = "Could not geocode the given address"
)
