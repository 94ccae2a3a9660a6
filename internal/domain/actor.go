package domain

// Actor identifies who is taking a quiz: a registered user or an anonymous
// guest session. Exactly one of the two identities is set; the zero value is
// invalid and rejected by Validate. The fields are unexported so the only way
// to build an Actor is through one of the constructors.
type Actor struct {
	userID         string
	guestSessionID string
}

// NewUserActor creates an Actor backed by a registered user account.
func NewUserActor(userID string) Actor {
	return Actor{userID: userID}
}

// NewGuestActor creates an Actor backed by a guest session identifier.
func NewGuestActor(sessionID string) Actor {
	return Actor{guestSessionID: sessionID}
}

// IsGuest reports whether the actor is an anonymous guest session.
func (a Actor) IsGuest() bool {
	return a.userID == ""
}

// UserID returns the user identity, empty for guests.
func (a Actor) UserID() string {
	return a.userID
}

// GuestSessionID returns the guest session identity, empty for users.
func (a Actor) GuestSessionID() string {
	return a.guestSessionID
}

// Validate checks that exactly one identity is set.
func (a Actor) Validate() error {
	if a.userID == "" && a.guestSessionID == "" {
		return NewValidationError("actor must have a user or guest session identity")
	}
	if a.userID != "" && a.guestSessionID != "" {
		return NewValidationError("actor cannot have both user and guest session identities")
	}
	return nil
}

// Owns reports whether this actor owns the given attempt.
func (a Actor) Owns(attempt *QuizAttempt) bool {
	if attempt == nil {
		return false
	}
	if a.IsGuest() {
		return attempt.GuestSessionID != "" && attempt.GuestSessionID == a.guestSessionID
	}
	return attempt.UserID != "" && attempt.UserID == a.userID
}
