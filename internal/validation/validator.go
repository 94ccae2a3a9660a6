package validation

import (
	"regexp"
	"strings"

	"quizdeck/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAttemptID validates an attempt ID path parameter
func (v *Validator) ValidateAttemptID(attemptID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(attemptID) == "" {
		errors = append(errors, domain.NewMissingFieldError("attempt_id"))
	} else if !isValidULID(attemptID) {
		errors = append(errors, domain.NewInvalidFormatError("attempt_id", attemptID))
	}

	return errors
}

// ValidateQuizID validates a quiz ID path parameter
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(quizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	return errors
}

// ValidateRecordAnswerRequest validates an answer submission
func (v *Validator) ValidateRecordAnswerRequest(questionID, selectedOption string, timeTakenSeconds *int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(questionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_id"))
	} else if !isValidULID(questionID) {
		errors = append(errors, domain.NewInvalidFormatError("question_id", questionID))
	}

	if strings.TrimSpace(selectedOption) == "" {
		errors = append(errors, domain.NewMissingFieldError("selected_option"))
	} else if _, err := domain.ParseOption(selectedOption); err != nil {
		errors = append(errors, domain.NewInvalidFormatError("selected_option", selectedOption))
	}

	if timeTakenSeconds != nil && (*timeTakenSeconds < 0 || *timeTakenSeconds > 86400) {
		errors = append(errors, domain.NewOutOfRangeError("time_taken_seconds", *timeTakenSeconds, 0, 86400))
	}

	return errors
}

// ValidatePagination validates limit and offset query parameters
func (v *Validator) ValidatePagination(limit, offset int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if limit < 0 || limit > 100 {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 0, 100))
	}
	if offset < 0 {
		errors = append(errors, domain.NewOutOfRangeError("offset", offset, 0, 1<<30))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
