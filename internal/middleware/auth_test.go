package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/1", nil)
	ctx := context.WithValue(req.Context(), RoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireOwnerBlocksEmployees(t *testing.T) {
	m := &AuthMiddleware{}

	called := false
	h := m.RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestWithRole("employee"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOwnerBlocksMissingRole(t *testing.T) {
	m := &AuthMiddleware{}

	h := m.RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/accounts/1", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOwnerPassesOwner(t *testing.T) {
	m := &AuthMiddleware{}

	called := false
	h := m.RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestWithRole("owner"))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestContextGetters(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, 7)
	ctx = context.WithValue(ctx, EmailKey, "dona@example.com")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 7, id)

	email, ok := GetEmailFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "dona@example.com", email)

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	_, ok = GetEmailFromContext(context.Background())
	assert.False(t, ok)
}
