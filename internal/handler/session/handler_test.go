package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	entitymodel "github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
)

func setupRouter() (*chi.Mux, *nexus.Service, entitymodel.Store) {
	sessions := nexus.NewService(nil)
	store := entitymodel.NewMemoryStore(entitymodel.Seed())
	handler := New(sessions, store)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, sessions, store
}

func TestOpenSessionValidEntity(t *testing.T) {
	r, _, store := setupRouter()
	entities := store.List()
	payload, _ := json.Marshal(map[string]string{"entityId": entities[0].ID})

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.EntityID != entities[0].ID {
		t.Fatalf("expected session for %s, got %s", entities[0].ID, created.EntityID)
	}
}

func TestOpenSessionUnknownEntity(t *testing.T) {
	r, _, _ := setupRouter()
	payload, _ := json.Marshal(map[string]string{"entityId": "non-existent"})

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOpenSessionMissingEntityID(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetSessionNotOpen(t *testing.T) {
	r, _, store := setupRouter()
	entities := store.List()

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+entities[0].ID, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListSessionsReflectsOpenAndClose(t *testing.T) {
	r, sessions, store := setupRouter()
	entities := store.List()
	sessions.Open(context.Background(), entities[0])
	sessions.Open(context.Background(), entities[1])

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed []chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(listed))
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/"+entities[0].ID, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on close, got %d", resp.Code)
	}

	if _, err := sessions.Get(context.Background(), entities[0].ID); err == nil {
		t.Fatal("expected closed session to be gone")
	}
}

func TestSaveSessionOverwritesLog(t *testing.T) {
	r, sessions, store := setupRouter()
	entities := store.List()
	opened := sessions.Open(context.Background(), entities[0])
	opened.Messages = []chat.Message{{Role: chat.RoleUser, Content: "edited"}}

	payload, _ := json.Marshal(opened)
	req := httptest.NewRequest(http.MethodPut, "/sessions/"+entities[0].ID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	stored, err := sessions.Get(context.Background(), entities[0].ID)
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if len(stored.Messages) != 1 || stored.Messages[0].Content != "edited" {
		t.Fatalf("save did not replace the log: %+v", stored.Messages)
	}
}

func TestRouteDeliversToTargetAndNotesSource(t *testing.T) {
	r, sessions, store := setupRouter()
	entities := store.List()
	source, target := entities[0], entities[1]
	sessions.Open(context.Background(), source)

	payload, _ := json.Marshal(map[string]string{
		"targetEntityId": target.ID,
		"content":        "relay this",
	})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+source.ID+"/route", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	targetSession, err := sessions.Get(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("target session not opened by route: %v", err)
	}
	if len(targetSession.Messages) != 1 {
		t.Fatalf("expected 1 message in target log, got %d", len(targetSession.Messages))
	}
	delivered := targetSession.Messages[0]
	if delivered.Role != chat.RoleCrossEntity {
		t.Fatalf("expected cross-entity role, got %s", delivered.Role)
	}
	if delivered.Content != "[FROM "+source.Name+"]: relay this" {
		t.Fatalf("unexpected routed content: %s", delivered.Content)
	}

	sourceSession, err := sessions.Get(context.Background(), source.ID)
	if err != nil {
		t.Fatalf("source session: %v", err)
	}
	last := sourceSession.Messages[len(sourceSession.Messages)-1]
	if last.Role != chat.RoleSystem || last.Content != "Message sent to "+target.Name {
		t.Fatalf("missing delivery note in source log: %+v", last)
	}
}

func TestRouteToSelfRejected(t *testing.T) {
	r, sessions, store := setupRouter()
	entities := store.List()
	sessions.Open(context.Background(), entities[0])

	payload, _ := json.Marshal(map[string]string{
		"targetEntityId": entities[0].ID,
		"content":        "echo",
	})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+entities[0].ID+"/route", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRouteFromUnopenedSourceRejected(t *testing.T) {
	r, _, store := setupRouter()
	entities := store.List()

	payload, _ := json.Marshal(map[string]string{
		"targetEntityId": entities[1].ID,
		"content":        "hello",
	})
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+entities[0].ID+"/route", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
