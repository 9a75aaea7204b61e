package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collabBack/internal/identity"
)

func TestLogRequestOmitsQueryString(t *testing.T) {
	var buf bytes.Buffer
	app := &application{infoLog: log.New(&buf, "INFO\t", 0)}

	handler := app.logRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/ws/events?token=secret-jwt", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if strings.Contains(line, "secret-jwt") || strings.Contains(line, "token=") {
		t.Fatalf("token leaked into log: %q", line)
	}
	if !strings.Contains(line, "GET /ws/events") {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestJWTMiddlewarePutsActorInContext(t *testing.T) {
	tokens, err := identity.NewManager("middleware-secret", time.Hour)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	app := &application{tokens: tokens}
	token, err := tokens.Issue(identity.Actor{ID: "brand-1", Role: identity.RoleBrand})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got identity.Actor
	handler := app.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = identity.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got.ID != "brand-1" || got.Role != identity.RoleBrand {
		t.Fatalf("actor = %+v", got)
	}
}
