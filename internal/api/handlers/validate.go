package handlers

import (
	"net/mail"
	"unicode/utf8"
)

const (
	minPasswordLen = 10
	maxPasswordLen = 72 // bcrypt ignores input past this many bytes
)

func validateRegistration(email, password string) map[string]string {
	errs := map[string]string{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["email"] = "must be a valid email address"
	}
	switch {
	case utf8.RuneCountInString(password) < minPasswordLen:
		errs["password"] = "must be at least 10 characters"
	case len(password) > maxPasswordLen:
		errs["password"] = "must be at most 72 bytes"
	}
	return errs
}

func validateLogin(email, password string) map[string]string {
	errs := map[string]string{}
	if email == "" {
		errs["email"] = "is required"
	}
	if password == "" {
		errs["password"] = "is required"
	}
	return errs
}

func validateTitle(errs map[string]string, title *string, required bool) {
	if title == nil {
		if required {
			errs["title"] = "is required"
		}
		return
	}
	if utf8.RuneCountInString(*title) < 1 {
		errs["title"] = "must be at least 1 character"
	}
}
