package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type taskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

func (in *taskInput) applyTo(t *task) {
	t.Title = in.Title
	t.Description = in.Description
	t.DueDate = in.DueDate
	t.Category = in.Category
	t.Priority = in.Priority
	if t.Category == "" {
		t.Category = defaultCategory
	}
	if t.Priority == "" {
		t.Priority = defaultPriority
	}
}

func (app *application) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	tasks, err := app.storage.getTasksForUser(u.ID)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	u := getUserFromRequest(r)
	var input taskInput
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	t := &task{UserID: u.ID}
	input.applyTo(t)

	v := newValidator()
	v.checkTaskFields(t)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	err = app.storage.insertTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.taskFromPath(w, r)
	if !ok {
		return
	}

	var input taskInput
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	input.applyTo(t)

	v := newValidator()
	v.checkTaskFields(t)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	err = app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.taskFromPath(w, r)
	if !ok {
		return
	}

	var input struct {
		Completed *bool `json:"completed"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if input.Completed == nil {
		writeError(w, errors.New("completed must be provided"), http.StatusBadRequest)
		return
	}

	t.Completed = *input.Completed
	err = app.storage.updateTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.taskFromPath(w, r)
	if !ok {
		return
	}
	err := app.storage.deleteTask(t)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// taskFromPath resolves the {id} path value to a task owned by the requesting
// user. Tasks owned by someone else report not-found rather than forbidden so
// ids cannot be probed.
func (app *application) taskFromPath(w http.ResponseWriter, r *http.Request) (*task, bool) {
	u := getUserFromRequest(r)
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, errors.New("task not found"), http.StatusNotFound)
		return nil, false
	}
	t, err := app.storage.getTaskByID(id)
	if err != nil {
		log.Println(err)
		writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
		return nil, false
	}
	if t == nil || t.UserID != u.ID {
		writeError(w, errors.New("task not found"), http.StatusNotFound)
		return nil, false
	}
	return t, true
}
