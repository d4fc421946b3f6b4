package domain

import "strings"

// Session identifies the authenticated user for the duration of a request
// or stream. It is built from verified token claims and passed explicitly
// into every service call; there is no ambient auth state.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

func (s Session) Valid() bool {
	return s.UserID != ""
}

// FirstName returns the leading word of the display name, falling back to
// the local part of the email.
func (s Session) FirstName() string {
	if fields := strings.Fields(s.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	if i := strings.IndexByte(s.Email, '@'); i > 0 {
		return s.Email[:i]
	}
	return "User"
}
