package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"heating_controller/internal/service"
)

func postJSON(t *testing.T, auth *mockAuth, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(&service.Service{Authorization: auth})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"created", `{"username":"u","password":"p"}`, nil, http.StatusOK},
		{"bad body", `{"username":1}`, nil, http.StatusBadRequest},
		{"missing password", `{"username":"u"}`, nil, http.StatusBadRequest},
		{"blank credentials", `{"username":" ","password":"p"}`, service.ErrInvalidCredentials, http.StatusBadRequest},
		{"taken", `{"username":"u","password":"p"}`, service.ErrUserExists, http.StatusConflict},
		{"storage failure", `{"username":"u","password":"p"}`, errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpID: 42, signUpErr: tc.err}
			w := postJSON(t, auth, "/auth/sign-up", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status %d, want %d (body %s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var m map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &m)
			if m["id"] != float64(42) || auth.lastSignUpUsername != "u" || auth.lastSignUpPassword != "p" {
				t.Fatalf("unexpected response %v / call %q %q", m, auth.lastSignUpUsername, auth.lastSignUpPassword)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	w := postJSON(t, &mockAuth{genTokenToken: "tok123"}, "/auth/sign-in", `{"username":"u","password":"p"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("token %v", m["token"])
	}

	w = postJSON(t, &mockAuth{genTokenErr: service.ErrInvalidPassword}, "/auth/sign-in", `{"username":"u","password":"x"}`)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "invalid credentials") {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	w = postJSON(t, &mockAuth{}, "/auth/sign-in", `{"username":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad body status %d", w.Code)
	}
}
