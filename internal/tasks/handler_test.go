package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestRouter(opts ...HandlerOption) (*Registry, http.Handler) {
	reg := NewRegistry()
	return reg, NewHandler(reg, opts...).Router()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHandlerCreateAndGet(t *testing.T) {
	_, h := newTestRouter()

	w := doRequest(t, h, http.MethodPost, "/api/v1/tasks/", `{"description":"Buy milk","deadline":"2025-03-01"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var created Task
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Description != "Buy milk" || created.Done {
		t.Errorf("Unexpected task: %+v", created)
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/tasks/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/tasks/2", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{"invalid json", `{`, http.StatusBadRequest, "Invalid JSON"},
		{"empty description", `{"description":"  ","deadline":"nope"}`, http.StatusBadRequest, "description cannot be empty"},
		{"bad deadline", `{"description":"Read","deadline":"nope"}`, http.StatusBadRequest, "invalid deadline"},
		{"missing deadline", `{"description":"Read"}`, http.StatusBadRequest, "invalid deadline"},
		{"duplicate", `{"description":"BUY MILK","deadline":"2025-03-01"}`, http.StatusConflict, `task "BUY MILK" already exists`},
		{"too long", `{"description":"` + strings.Repeat("x", 501) + `","deadline":"2025-03-01"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, h := newTestRouter()
			mustAdd(t, reg, "Buy milk")

			w := doRequest(t, h, http.MethodPost, "/api/v1/tasks/", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("Expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if msg := decodeError(t, w); tt.wantMsg != "" && msg != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, msg)
			}
			if reg.Len() != 1 {
				t.Errorf("Expected registry unchanged, got %d tasks", reg.Len())
			}
		})
	}
}

func TestHandlerListAndFilter(t *testing.T) {
	reg, h := newTestRouter()

	w := doRequest(t, h, http.MethodGet, "/api/v1/tasks/", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("Expected 200 [], got %d %s", w.Code, w.Body.String())
	}

	mustAdd(t, reg, "a")
	mustAdd(t, reg, "b")
	reg.MarkDone(2)

	var list []Task
	w = doRequest(t, h, http.MethodGet, "/api/v1/tasks/?done=true", "")
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("Expected only task 2, got %+v", list)
	}

	w = doRequest(t, h, http.MethodGet, "/api/v1/tasks/?done=maybe", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad filter, got %d", w.Code)
	}
}

func TestHandlerMarkDoneEditDelete(t *testing.T) {
	reg, h := newTestRouter()
	mustAdd(t, reg, "Buy milk")

	w := doRequest(t, h, http.MethodPost, "/api/v1/tasks/1/done", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	w = doRequest(t, h, http.MethodPost, "/api/v1/tasks/1/done", "")
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on second done, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodPut, "/api/v1/tasks/1", `{"description":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on empty edit, got %d", w.Code)
	}
	w = doRequest(t, h, http.MethodPut, "/api/v1/tasks/1", `{"description":"Buy oat milk"}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 on edit, got %d", w.Code)
	}
	w = doRequest(t, h, http.MethodPut, "/api/v1/tasks/abc", `{"description":"x"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad id, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodDelete, "/api/v1/tasks/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", w.Code)
	}
	var removed Task
	if err := json.NewDecoder(w.Body).Decode(&removed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if removed.Description != "Buy oat milk" || !removed.Done {
		t.Errorf("Unexpected removed task: %+v", removed)
	}

	w = doRequest(t, h, http.MethodDelete, "/api/v1/tasks/1", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestHandlerClearCompleted(t *testing.T) {
	reg, h := newTestRouter()
	mustAdd(t, reg, "a")
	mustAdd(t, reg, "b")

	w := doRequest(t, h, http.MethodDelete, "/api/v1/tasks/completed", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 with nothing to clear, got %d", w.Code)
	}

	reg.MarkDone(1)
	w = doRequest(t, h, http.MethodDelete, "/api/v1/tasks/completed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["cleared"] != 1 {
		t.Errorf("Expected cleared=1, got %v", body)
	}
	if reg.Len() != 1 {
		t.Errorf("Expected 1 task left, got %d", reg.Len())
	}
}

func TestHandlerAdminAuth(t *testing.T) {
	reg, h := newTestRouter(WithAdminAuth("admin", "secret"))
	mustAdd(t, reg, "a")

	w := doRequest(t, h, http.MethodDelete, "/api/v1/tasks/1", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without credentials, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/1", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with credentials, got %d", rec.Code)
	}
	if reg.Len() != 0 {
		t.Errorf("Expected task deleted, got %d tasks", reg.Len())
	}
}

func TestHandlerExpiredContext(t *testing.T) {
	reg, h := newTestRouter()
	mustAdd(t, reg, "Buy milk")

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/v1/tasks/", ""},
		{http.MethodPost, "/api/v1/tasks/", `{"description":"Read","deadline":"2025-03-01"}`},
		{http.MethodGet, "/api/v1/tasks/1", ""},
		{http.MethodPut, "/api/v1/tasks/1", `{"description":"Buy oat milk"}`},
		{http.MethodPost, "/api/v1/tasks/1/done", ""},
		{http.MethodDelete, "/api/v1/tasks/1", ""},
		{http.MethodDelete, "/api/v1/tasks/completed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
			defer cancel()

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)).WithContext(ctx)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != http.StatusRequestTimeout {
				t.Errorf("Expected 408, got %d", w.Code)
			}
		})
	}

	task, err := reg.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if reg.Len() != 1 || task.Description != "Buy milk" || task.Done {
		t.Errorf("Expired requests changed registry state: %+v", task)
	}
}
