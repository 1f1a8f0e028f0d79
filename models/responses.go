// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// ProfileResponse is returned by the profile endpoints.
type ProfileResponse struct {
	User PublicUser `json:"user"`
}

// StoreStatusResponse tells clients whether any account exists yet, so that
// the first registration can be presented as the admin bootstrap.
type StoreStatusResponse struct {
	HasUsers bool `json:"hasUsers"`
	IsEmpty  bool `json:"isEmpty"`
}

// TaskListResponse carries a user's tasks together with the public view of
// their owner.
type TaskListResponse struct {
	Owner PublicUser `json:"owner"`
	Tasks []Task     `json:"tasks"`
}

// TaskResponse is returned after a task is created or its status changes.
type TaskResponse struct {
	Message string `json:"message"`
	Task    Task   `json:"task"`
}

// TeamMemberSummary holds the per-status task counters of one employee.
type TeamMemberSummary struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	NewTask   int    `json:"newTask"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

// TeamSnapshotResponse is the body of GET /api/tasks/team/snapshot.
type TeamSnapshotResponse struct {
	Team []TeamMemberSummary `json:"team"`
}

// MessageResponse carries a single human-readable message. It is used both
// for plain acknowledgements and for error bodies.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
