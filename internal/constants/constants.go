package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Sessions
const (
	SessionCookieName = "greenpulse_session"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Initiative lifecycle
const (
	// SubmissionWindowDays is how many days before the month ends regular
	// users may submit an initiative for the next period.
	SubmissionWindowDays = 7

	// VotingWindowDays is how long pending siblings stay open to votes after
	// a manual deactivation.
	VotingWindowDays = 3

	// FailedCleanupDay is the day of the target month on which failed
	// initiatives become eligible for deletion.
	FailedCleanupDay = 15
)

// AI suggestions
const (
	MaxAISuggestions = 10
)
