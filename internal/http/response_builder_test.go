package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmhub/internal/core"
	"farmhub/internal/loader"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		ETag(3).
		Header("Location", "/api/farms/4").
		JSON(map[string]int{"id": 4}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("ETag"); got != `"3"` {
		t.Errorf("ETag = %q, want %q", got, `"3"`)
	}
	if got := w.Header().Get("Location"); got != "/api/farms/4" {
		t.Errorf("Location = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Body.String() != "{\"id\":4}\n" {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilder_NoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusNoContent).Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestResponseBuilder_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(func() {}).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body ErrorBody)
	}{
		{
			name:   "not found",
			err:    fmt.Errorf("get crop: %w", core.NotFound(core.EntityCrop, 9)),
			status: http.StatusNotFound,
		},
		{
			name:   "conflict",
			err:    &core.ConflictError{Entity: core.EntityTask, ID: 1, Expected: 1, Current: 2},
			status: http.StatusConflict,
			check: func(t *testing.T, body ErrorBody) {
				if body.CurrentRevision == nil || *body.CurrentRevision != 2 {
					t.Errorf("currentRevision = %v, want 2", body.CurrentRevision)
				}
			},
		},
		{
			name:   "referenced",
			err:    &core.ReferencedError{Entity: core.EntityFarm, ID: 1, Dependents: map[string]int{"crop": 3}},
			status: http.StatusConflict,
			check: func(t *testing.T, body ErrorBody) {
				if body.Dependents["crop"] != 3 {
					t.Errorf("dependents = %v", body.Dependents)
				}
			},
		},
		{
			name:   "validation",
			err:    &core.ValidationError{Fields: map[string]string{"name": "is required"}},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body ErrorBody) {
				if body.Fields["name"] != "is required" {
					t.Errorf("fields = %v", body.Fields)
				}
			},
		},
		{
			name:   "bad input",
			err:    errBadInput("invalid id"),
			status: http.StatusBadRequest,
		},
		{
			name:   "unavailable",
			err:    fmt.Errorf("%w: boom", loader.ErrUnavailable),
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, body ErrorBody) {
				if !body.Retryable {
					t.Error("expected retryable")
				}
			},
		},
		{
			name:   "internal",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body ErrorBody) {
				if body.Error != "internal error" {
					t.Errorf("internal details leaked: %q", body.Error)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(w, r, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}
