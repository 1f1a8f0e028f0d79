// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-chi/chi/v5"
)

// listTasks returns the caller's tasks. Admins may pass ?userId= to read the
// tasks of another user; the parameter is ignored for everyone else.
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		writeError(w, r, err, "Handler.listTasks")
		return
	}

	tasks, err := h.services.TaskService.ListTasks(r.Context(), actor, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err, "Handler.listTasks")
		return
	}

	utils.WriteJSON(w, tasks, http.StatusOK)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		writeError(w, r, err, "Handler.createTask")
		return
	}

	var request models.CreateTaskRequest
	if err = decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.createTask")
		return
	}

	task, err := h.services.TaskService.CreateTask(r.Context(), actor, request)
	if err != nil {
		writeError(w, r, err, "Handler.createTask")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Message: msgTaskCreated, Task: task}, http.StatusCreated)
}

func (h *Handler) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := currentUser(r)
	if err != nil {
		writeError(w, r, err, "Handler.updateTaskStatus")
		return
	}

	var request models.UpdateTaskStatusRequest
	if err = decodeJSON(r, &request); err != nil {
		writeError(w, r, err, "Handler.updateTaskStatus")
		return
	}

	task, err := h.services.TaskService.UpdateTaskStatus(r.Context(), actor, chi.URLParam(r, "taskId"), request)
	if err != nil {
		writeError(w, r, err, "Handler.updateTaskStatus")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Message: msgTaskStatusUpdated, Task: task}, http.StatusOK)
}

func (h *Handler) teamSnapshot(w http.ResponseWriter, r *http.Request) {
	team, err := h.services.TeamService.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err, "Handler.teamSnapshot")
		return
	}

	utils.WriteJSON(w, models.TeamSnapshotResponse{Team: team}, http.StatusOK)
}
