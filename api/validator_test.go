package main

import (
	"testing"
	"time"
)

func TestCheckPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Abcdef1!", true},
		{"valid with other specials", "Xy9#zzzz", true},
		{"empty", "", false},
		{"too short", "Ab1!", false},
		{"no uppercase", "abcdef1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special", "Abcdefg1", false},
		{"character outside allowed set", "Abcdef1!_", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := newValidator()
			v.checkPassword(c.password)
			if got := !v.hasErrors(); got != c.valid {
				t.Errorf("checkPassword(%q) valid = %v, want %v (%v)", c.password, got, c.valid, v.errors)
			}
		})
	}
}

func TestCheckEmail(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"user@nodot", false},
		{"user@example.c", false},
	}
	for _, c := range cases {
		v := newValidator()
		v.checkEmail(c.email)
		if got := !v.hasErrors(); got != c.valid {
			t.Errorf("checkEmail(%q) valid = %v, want %v", c.email, got, c.valid)
		}
	}
}

func TestCheckTaskFields(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dueDateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(dueDateLayout)

	base := func() *task {
		return &task{
			Title:       "Buy milk",
			Description: "two liters",
			DueDate:     tomorrow,
			Category:    "Errands",
			Priority:    priorityHigh,
		}
	}

	t.Run("valid", func(t *testing.T) {
		v := newValidator()
		v.checkTaskFields(base())
		if v.hasErrors() {
			t.Errorf("valid task rejected: %v", v.errors)
		}
	})

	cases := []struct {
		name      string
		mutate    func(*task)
		wantField string
	}{
		{"missing title", func(tk *task) { tk.Title = "" }, "title"},
		{"missing description", func(tk *task) { tk.Description = "" }, "description"},
		{"missing due date", func(tk *task) { tk.DueDate = "" }, "dueDate"},
		{"malformed due date", func(tk *task) { tk.DueDate = "14/06/2025" }, "dueDate"},
		{"past due date", func(tk *task) { tk.DueDate = yesterday }, "dueDate"},
		{"unknown category", func(tk *task) { tk.Category = "Chores" }, "category"},
		{"unknown priority", func(tk *task) { tk.Priority = "Urgent" }, "priority"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tk := base()
			c.mutate(tk)
			v := newValidator()
			v.checkTaskFields(tk)
			if _, ok := v.errors[c.wantField]; !ok {
				t.Errorf("expected an error on %q, got %v", c.wantField, v.errors)
			}
		})
	}

	t.Run("due today is allowed", func(t *testing.T) {
		tk := base()
		tk.DueDate = time.Now().Format(dueDateLayout)
		v := newValidator()
		v.checkTaskFields(tk)
		if v.hasErrors() {
			t.Errorf("task due today rejected: %v", v.errors)
		}
	})
}
