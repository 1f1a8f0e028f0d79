// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// ParseDueDate parses a task due date given either as an RFC 3339 timestamp
// or as a plain calendar date, which is interpreted as midnight UTC.
// An empty string yields a nil time and no error.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return &t, nil
	}

	return nil, ErrInvalidDueDate
}
