package models

// Step is the wizard position of a form session
type Step int

const (
	// StepDetails collects name, email, student ID and year
	StepDetails Step = 0
	// StepPassword collects password and its confirmation
	StepPassword Step = 1
)

// String returns a readable step name
func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepPassword:
		return "password"
	default:
		return "unknown"
	}
}

// Fields returns the fields shown on the step
func (s Step) Fields() []Field {
	if s == StepPassword {
		return StepOneFields
	}
	return StepZeroFields
}

// SubmissionOutcome is the result of a submit attempt
type SubmissionOutcome string

const (
	// OutcomeInvalid means at least one field failed its rule
	OutcomeInvalid SubmissionOutcome = "INVALID"
	// OutcomeMismatch means the password confirmation differs
	OutcomeMismatch SubmissionOutcome = "PASSWORD_MISMATCH"
	// OutcomeSuccess means the submission was accepted
	OutcomeSuccess SubmissionOutcome = "SUCCESS"
)

// NotificationVariant is the visual severity of a notification
type NotificationVariant string

// NotificationDestructive marks a notification about a rejected action
const NotificationDestructive NotificationVariant = "destructive"

// Notification is a transient message not attached to any field
type Notification struct {
	Title   string              `json:"title"`
	Variant NotificationVariant `json:"variant"`
}
