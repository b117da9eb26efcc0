package client

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const passwordSpecials = "@$!%*?&()#^"

// ValidationErrors maps a field name to what is wrong with it. Login and
// Register return it before any network call is made.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(e))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

func (e ValidationErrors) set(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ValidationErrors) checkEmail(email string) {
	if !emailRegexp.MatchString(email) {
		e.set("email", "please enter a valid email address")
	}
}

func (e ValidationErrors) checkPassword(password string) {
	if len(password) < 6 {
		e.set("password", "password must be at least 6 characters long")
	}
	if !strongPassword(password) {
		e.set("password", "password must include at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
}

// strongPassword requires lower, upper, digit and one of passwordSpecials,
// drawn only from those classes.
func strongPassword(password string) bool {
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return false
		}
	}
	return hasLower && hasUpper && hasDigit && hasSpecial
}

// ValidateCredentials runs the login form checks.
func ValidateCredentials(email, password string) error {
	errs := make(ValidationErrors)
	errs.checkEmail(email)
	errs.checkPassword(password)
	return errs.orNil()
}

// ValidateRegistration runs the register form checks.
func ValidateRegistration(name, email, password string) error {
	errs := make(ValidationErrors)
	if strings.TrimSpace(name) == "" {
		errs.set("name", "name is required")
	}
	errs.checkEmail(email)
	errs.checkPassword(password)
	return errs.orNil()
}
