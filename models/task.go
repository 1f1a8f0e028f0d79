// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TaskStatus is the lifecycle state of a task.
//
// Any status may be set from any other status; no transition graph is
// enforced.
type TaskStatus string

const (
	StatusNew       TaskStatus = "new"
	StatusActive    TaskStatus = "active"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// AllTaskStatuses lists every valid status in display order.
var AllTaskStatuses = []TaskStatus{StatusNew, StatusActive, StatusCompleted, StatusFailed}

// IsValid reports whether s is one of the four known statuses.
func (s TaskStatus) IsValid() bool {
	for _, status := range AllTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Task is a unit of work embedded in exactly one [User].
type Task struct {
	// ID is unique only within the owning user's task list.
	ID string `json:"id"`

	// Title is required and stored trimmed.
	Title string `json:"title"`

	Description string `json:"description"`

	// Status defaults to [StatusNew].
	Status TaskStatus `json:"status"`

	DueDate *time.Time `json:"dueDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskStatusCounts holds the number of tasks per status for one user.
type TaskStatusCounts map[TaskStatus]int

// CountTasksByStatus returns a counter for every status, zero included.
func CountTasksByStatus(tasks []Task) TaskStatusCounts {
	counts := make(TaskStatusCounts, len(AllTaskStatuses))
	for _, status := range AllTaskStatuses {
		counts[status] = 0
	}
	for _, task := range tasks {
		counts[task.Status]++
	}
	return counts
}
