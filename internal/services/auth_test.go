package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/convx/internal/session"
	"github.com/desertthunder/convx/internal/shared"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("establishes and persists the session", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "user@example.com" || body["password"] != "hunter2" {
					t.Errorf("unexpected credentials: %v", body)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"user": {"id": "u1", "email": "user@example.com", "role": "user"},
					"access": "access-token",
					"refresh": "refresh-token"
				}`))
			}))
			defer server.Close()

			store := session.NewStore(nil)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			sess, err := auth.Login(ctx, "user@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if sess.Token.AccessToken != "access-token" {
				t.Errorf("unexpected access token: %s", sess.Token.AccessToken)
			}
			if sess.Identity.Email != "user@example.com" {
				t.Errorf("unexpected identity: %+v", sess.Identity)
			}
			if store.AccessToken() != "access-token" {
				t.Error("expected the session to be published to the store")
			}
		})

		t.Run("requires credentials before any network call", func(t *testing.T) {
			store := session.NewStore(nil)
			auth := NewAuthService(NewClient("http://127.0.0.1:1", nil, store), store)

			if _, err := auth.Login(ctx, "", "pw"); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if _, err := auth.Login(ctx, "user@example.com", ""); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})

		t.Run("missing access token is a decode failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"user": {"email": "user@example.com"}}`))
			}))
			defer server.Close()

			store := session.NewStore(nil)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			if _, err := auth.Login(ctx, "user@example.com", "pw"); !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
			if store.Authenticated() {
				t.Error("expected no session after a failed login")
			}
		})

		t.Run("rejected credentials surface the server detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"detail": "invalid credentials"}`))
			}))
			defer server.Close()

			store := session.NewStore(nil)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			if _, err := auth.Login(ctx, "user@example.com", "wrong"); !errors.Is(err, shared.ErrRequestFailed) {
				t.Errorf("expected ErrRequestFailed, got %v", err)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("mirrors the password confirmation field", func(t *testing.T) {
			var body map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/register/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				json.NewDecoder(r.Body).Decode(&body)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{
					"user": {"email": "new@example.com", "role": "user"},
					"access": "a", "refresh": "r"
				}`))
			}))
			defer server.Close()

			store := session.NewStore(nil)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			if _, err := auth.Register(ctx, "new@example.com", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if body["password2"] != body["password"] || body["password2"] != "hunter2" {
				t.Errorf("expected mirrored password fields, got %v", body)
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		t.Run("clears the store", func(t *testing.T) {
			store := authedStore(t)
			auth := NewAuthService(NewClient("", nil, store), store)

			if err := auth.Logout(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Authenticated() {
				t.Error("expected the store to be cleared")
			}
		})
	})

	t.Run("Me", func(t *testing.T) {
		t.Run("fetches the current identity", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/me/" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"email": "user@example.com", "role": "admin"}`))
			}))
			defer server.Close()

			store := authedStore(t)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			identity, err := auth.Me(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !identity.IsAdmin() {
				t.Errorf("expected admin identity, got %+v", identity)
			}
		})
	})

	t.Run("Storage", func(t *testing.T) {
		t.Run("fetches quota usage", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"quota": 100, "used": 25, "available": 75, "percentage": 25.0}`))
			}))
			defer server.Close()

			store := authedStore(t)
			auth := NewAuthService(NewClient(server.URL, nil, store), store)

			info, err := auth.Storage(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if info.Used != 25 || info.Available != 75 {
				t.Errorf("unexpected storage info: %+v", info)
			}
		})
	})
}
