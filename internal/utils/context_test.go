// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-task-keeper/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestUserCtxKey(t *testing.T) {
	if UserCtxKey.String() != "user" {
		t.Errorf("expected 'user', got '%s'", UserCtxKey.String())
	}
}

func TestGetUserFromContext_Success(t *testing.T) {
	ctx := WithUser(context.Background(), models.User{ID: "u-1", Role: models.RoleAdmin})

	user, ok := GetUserFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if user.ID != "u-1" || user.Role != models.RoleAdmin {
		t.Errorf("unexpected user in context: %+v", user)
	}

	userID, ok := GetUserIDFromContext(ctx)
	if !ok || userID != "u-1" {
		t.Errorf("expected userID=u-1, got %q (ok=%v)", userID, ok)
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	_, ok := GetUserFromContext(context.Background())
	if ok {
		t.Fatal("expected ok=false, got true")
	}

	userID, ok := GetUserIDFromContext(context.Background())
	if ok || userID != "" {
		t.Fatalf("expected empty userID and ok=false, got %q (ok=%v)", userID, ok)
	}
}

func TestGetUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserCtxKey, "not-a-user")

	if _, ok := GetUserFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
}

func TestGetUserFromContext_DifferentKey(t *testing.T) {
	otherKey := contextKey("otherKey")
	ctx := context.WithValue(context.Background(), otherKey, models.User{ID: "u-1"})

	if _, ok := GetUserFromContext(ctx); ok {
		t.Fatal("expected ok=false for different key, got true")
	}
}

func TestGetUserIDFromContext_EmptyID(t *testing.T) {
	ctx := WithUser(context.Background(), models.User{})

	if _, ok := GetUserIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for user without id, got true")
	}
}
