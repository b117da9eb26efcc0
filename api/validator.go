package main

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const passwordSpecials = "@$!%*?&()#^"

type validator struct {
	errors map[string]string
}

func newValidator() *validator {
	return &validator{
		errors: make(map[string]string),
	}
}

func (v *validator) toError() error {
	if v == nil {
		return errors.New("")
	}
	data, err := json.Marshal(v.errors)
	if err != nil {
		return err
	}
	return errors.New(string(data))
}

func (v *validator) hasErrors() bool {
	return len(v.errors) != 0
}

func (v *validator) checkCond(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

func (v *validator) checkEmail(email string) {
	v.checkCond(email != "", "email", "must be provided")
	v.checkCond(emailRegexp.MatchString(email), "email", "must be a valid email address")
}

func (v *validator) checkPassword(password string) {
	v.checkCond(password != "", "password", "must be provided")
	v.checkCond(len(password) >= 6, "password", "must be atleast 6 characters long")
	v.checkCond(len(password) <= 72, "password", "must be atmost 72 characters long")
	v.checkCond(isStrongPassword(password), "password", "must include atleast one uppercase letter, one lowercase letter, one number, and one special character")
}

func isStrongPassword(password string) bool {
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

func (v *validator) checkTaskFields(t *task) {
	v.checkCond(t.Title != "", "title", "must be provided")
	v.checkCond(len(t.Title) <= 255, "title", "must be atmost 255 characters")
	v.checkCond(t.Description != "", "description", "must be provided")
	v.checkCond(t.DueDate != "", "dueDate", "must be provided")
	if t.DueDate != "" {
		if !isValidDueDate(t.DueDate) {
			v.checkCond(false, "dueDate", "must be a date in the form YYYY-MM-DD")
		} else {
			v.checkCond(!isPastDueDate(t.DueDate), "dueDate", "cannot be in the past")
		}
	}
	v.checkCond(isValidCategory(t.Category), "category", "must be a known category")
	v.checkCond(isValidPriority(t.Priority), "priority", "must be one of Low, Medium or High")
}
