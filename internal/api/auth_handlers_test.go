package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blog-backend/internal/auth"
	"blog-backend/internal/models"
)

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{"missing fields", map[string]string{"username": "gooduser1"}, "All fields are required"},
		{"bad username", map[string]string{"username": "Bad", "email": "a@b.com", "password": "secret123"}, "Username must be between 7 and 20 characters long"},
		{"bad email", map[string]string{"username": "gooduser1", "email": "nope", "password": "secret123"}, "Invalid email format"},
		{"short password", map[string]string{"username": "gooduser1", "email": "a@b.com", "password": "short"}, "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, store, _ := setupUserRouter(t)

			rec := httptest.NewRecorder()
			req := newJSONRequest(t, http.MethodPost, "/api/auth/signup", tt.body)
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			assertMessage(t, rec.Body.Bytes(), tt.wantMsg)
			if len(store.users) != 0 {
				t.Fatalf("expected no record created")
			}
		})
	}
}

func TestSignupCreatesUserAndSetsCookie(t *testing.T) {
	router, _, store, svc := setupUserRouter(t)

	rec := httptest.NewRecorder()
	req := newJSONRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "gooduser1",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if len(store.users) != 1 {
		t.Fatalf("expected one record, got %d", len(store.users))
	}
	created := store.users[0]
	if created.PasswordHash == "" || created.PasswordHash == "secret123" {
		t.Fatalf("expected password stored as a hash")
	}
	if !svc.CheckPassword(created.PasswordHash, "secret123") {
		t.Fatalf("stored hash does not verify against the password")
	}
	if created.ProfilePicture != models.DefaultProfilePicture {
		t.Fatalf("expected default profile picture, got %q", created.ProfilePicture)
	}

	if strings.Contains(rec.Body.String(), created.PasswordHash) {
		t.Fatalf("response leaked the password hash")
	}

	var tokenCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			tokenCookie = cookie
		}
	}
	if tokenCookie == nil || tokenCookie.Value == "" {
		t.Fatalf("expected %s cookie to be set", auth.CookieName)
	}
	if !tokenCookie.HttpOnly {
		t.Fatalf("expected token cookie to be http-only")
	}

	claims, err := svc.VerifyToken(tokenCookie.Value)
	if err != nil {
		t.Fatalf("cookie token failed verification: %v", err)
	}
	if claims.Subject != created.ID {
		t.Fatalf("expected token subject %s, got %s", created.ID, claims.Subject)
	}
}

func TestSignupDuplicate(t *testing.T) {
	router, _, store, _ := setupUserRouter(t)
	seedUser(t, store, models.User{ID: "user-1", Username: "gooduser1", Email: "alice@example.com"})

	rec := httptest.NewRecorder()
	req := newJSONRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "gooduser1",
		"email":    "other@example.com",
		"password": "secret123",
	})
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	assertMessage(t, rec.Body.Bytes(), "Username or email already taken")
}

func TestSignin(t *testing.T) {
	router, _, store, svc := setupUserRouter(t)

	hash, err := svc.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	seedUser(t, store, models.User{
		ID: "user-1", Username: "gooduser1",
		Email: "alice@example.com", PasswordHash: hash,
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := newJSONRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{
			"email":    "alice@example.com",
			"password": "wrongpass",
		})
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertMessage(t, rec.Body.Bytes(), "Invalid credentials")
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := newJSONRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{
			"email":    "nobody@example.com",
			"password": "secret123",
		})
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertMessage(t, rec.Body.Bytes(), "Invalid credentials")
	})

	t.Run("success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := newJSONRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{
			"email":    "alice@example.com",
			"password": "secret123",
		})
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp map[string]any
		decodeBody(t, rec.Body.Bytes(), &resp)
		if resp["username"] != "gooduser1" {
			t.Fatalf("expected sanitized user in response, got %v", resp)
		}

		var hasCookie bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == auth.CookieName && cookie.Value != "" {
				hasCookie = true
			}
		}
		if !hasCookie {
			t.Fatalf("expected %s cookie on signin", auth.CookieName)
		}
	})
}
