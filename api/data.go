package main

import (
	"time"

	"github.com/google/uuid"
)

const dueDateLayout = "2006-01-02"

const (
	priorityLow    = "Low"
	priorityMedium = "Medium"
	priorityHigh   = "High"
)

const (
	defaultCategory = "Others"
	defaultPriority = priorityMedium
)

var taskCategories = []string{
	"Work",
	"Personal",
	"Health",
	"Study",
	"Finance",
	"Errands",
	"Shopping",
	"Fitness",
	"Travel",
	"Project",
	"Meeting",
	"Others",
}

var taskPriorities = []string{priorityLow, priorityMedium, priorityHigh}

type user struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
}

type task struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
}

func isValidDueDate(s string) bool {
	_, err := time.Parse(dueDateLayout, s)
	return err == nil
}

// Due dates compare as date-only strings, the same comparison the clients make.
func isPastDueDate(s string) bool {
	return s < time.Now().Format(dueDateLayout)
}

func isValidCategory(c string) bool {
	for _, valid := range taskCategories {
		if c == valid {
			return true
		}
	}
	return false
}

func isValidPriority(p string) bool {
	for _, valid := range taskPriorities {
		if p == valid {
			return true
		}
	}
	return false
}
