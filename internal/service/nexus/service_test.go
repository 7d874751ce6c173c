package nexus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/chat"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/model/entity"
	"github.com/va9226-stack/SENTIENT-NEXUS/internal/service/nexus"
)

func observer() entity.Entity {
	return entity.Entity{ID: "observer", Name: "OBSERVER", Status: entity.StatusActive}
}

func metatron() entity.Entity {
	return entity.Entity{ID: "metatron", Name: "METATRON", Status: entity.StatusPending}
}

type memorySnapshots struct {
	saved [][]chat.Session
}

func (m *memorySnapshots) LoadSnapshot(context.Context) ([]chat.Session, error) {
	if len(m.saved) == 0 {
		return []chat.Session{}, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, sessions []chat.Session) error {
	copied := make([]chat.Session, len(sessions))
	for i, s := range sessions {
		copied[i] = s.Clone()
	}
	m.saved = append(m.saved, copied)
	return nil
}

func TestOpenIsIdempotent(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	svc.Open(ctx, observer())

	sessions := svc.List(ctx)
	if len(sessions) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(sessions))
	}
	if len(sessions[0].Messages) != 0 {
		t.Fatalf("expected empty log, got %d messages", len(sessions[0].Messages))
	}
}

func TestOpenDoesNotResetExistingLog(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	if _, err := svc.AppendMessage(ctx, "observer", chat.Message{Role: chat.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	reopened := svc.Open(ctx, observer())
	if len(reopened.Messages) != 1 {
		t.Fatalf("reopen must keep the log, got %d messages", len(reopened.Messages))
	}
}

func TestCloseUnopenedIsNoOp(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	svc.Close(ctx, "metatron")

	if got := len(svc.List(ctx)); got != 1 {
		t.Fatalf("expected list unchanged, got %d sessions", got)
	}
}

func TestOpenSendClose(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	if got := len(svc.List(ctx)); got != 1 {
		t.Fatalf("expected 1 session after open, got %d", got)
	}

	if _, err := svc.AppendMessage(ctx, "observer", chat.Message{Role: chat.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("append user message: %v", err)
	}
	if _, err := svc.AppendMessage(ctx, "observer", chat.Message{Role: chat.RoleEntity, Content: "observed"}); err != nil {
		t.Fatalf("append entity message: %v", err)
	}

	session, err := svc.Get(ctx, "observer")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(session.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(session.Messages))
	}
	if session.Messages[0].Role != chat.RoleUser || session.Messages[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", session.Messages[0])
	}
	if session.Messages[1].Role != chat.RoleEntity {
		t.Fatalf("unexpected second message role: %s", session.Messages[1].Role)
	}

	svc.Close(ctx, "observer")
	if got := len(svc.List(ctx)); got != 0 {
		t.Fatalf("expected 0 sessions after close, got %d", got)
	}
}

func TestSaveReplacesWholesale(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	session, _ := svc.Get(ctx, "observer")
	session.State["lastInteraction"] = "2026-08-30T00:00:00Z"
	session.Messages = append(session.Messages, chat.Message{Role: chat.RoleSystem, Content: "restored"})

	svc.Save(ctx, session)

	got, err := svc.Get(ctx, "observer")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.State["lastInteraction"] != "2026-08-30T00:00:00Z" {
		t.Fatalf("state bag not replaced: %+v", got.State)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("log not replaced, got %d messages", len(got.Messages))
	}
}

func TestSaveUnopenedIsNoOp(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Save(ctx, chat.NewSession("metatron", "METATRON"))

	if got := len(svc.List(ctx)); got != 0 {
		t.Fatalf("save must not create sessions, got %d", got)
	}
}

func TestRouteCrossEntityToClosedTarget(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, observer())
	msg := chat.Message{Role: chat.RoleCrossEntity, Content: "[FROM OBSERVER]: ledger check", SourceEntity: "OBSERVER"}
	svc.RouteCrossEntity(ctx, metatron(), msg)

	sessions := svc.List(ctx)
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	target, err := svc.Get(ctx, "metatron")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(target.Messages) != 1 {
		t.Fatalf("expected target log seeded with one message, got %d", len(target.Messages))
	}
	if target.Messages[0].Content != msg.Content {
		t.Fatalf("unexpected seeded message: %+v", target.Messages[0])
	}
}

func TestRouteCrossEntityAppendsWithoutReordering(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	svc.Open(ctx, metatron())
	if _, err := svc.AppendMessage(ctx, "metatron", chat.Message{Role: chat.RoleUser, Content: "first"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	svc.RouteCrossEntity(ctx, metatron(), chat.Message{Role: chat.RoleCrossEntity, Content: "second", SourceEntity: "OBSERVER"})

	if got := len(svc.List(ctx)); got != 1 {
		t.Fatalf("route must not duplicate sessions, got %d", got)
	}
	target, _ := svc.Get(ctx, "metatron")
	if len(target.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(target.Messages))
	}
	if target.Messages[0].Content != "first" || target.Messages[1].Content != "second" {
		t.Fatalf("message order broken: %+v", target.Messages)
	}
}

func TestGetMissingSession(t *testing.T) {
	svc := nexus.NewService(nil)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, nexus.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSnapshotRestoreAcrossRestart(t *testing.T) {
	snapshots := &memorySnapshots{}
	ctx := context.Background()

	svc := nexus.NewService(snapshots)
	svc.Open(ctx, observer())
	if _, err := svc.AppendMessage(ctx, "observer", chat.Message{Role: chat.RoleUser, Content: "persist me"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	restarted := nexus.NewService(snapshots)
	restarted.Restore(ctx)

	sessions := restarted.List(ctx)
	if len(sessions) != 1 {
		t.Fatalf("expected restored session, got %d", len(sessions))
	}
	if len(sessions[0].Messages) != 1 || sessions[0].Messages[0].Content != "persist me" {
		t.Fatalf("restored log mismatch: %+v", sessions[0].Messages)
	}
}

func TestRestoreDropsDuplicateEntitySessions(t *testing.T) {
	first := chat.NewSession("observer", "OBSERVER")
	first.Messages = append(first.Messages, chat.Message{Role: chat.RoleUser, Content: "keep me"})
	duplicate := chat.NewSession("observer", "OBSERVER")
	snapshots := &memorySnapshots{saved: [][]chat.Session{{first, duplicate, chat.NewSession("metatron", "METATRON")}}}

	svc := nexus.NewService(snapshots)
	svc.Restore(context.Background())

	sessions := svc.List(context.Background())
	if len(sessions) != 2 {
		t.Fatalf("expected duplicates dropped, got %d sessions", len(sessions))
	}
	restored, err := svc.Get(context.Background(), "observer")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(restored.Messages) != 1 || restored.Messages[0].Content != "keep me" {
		t.Fatalf("first occurrence must win: %+v", restored.Messages)
	}
}

func TestSubscribeReceivesMutations(t *testing.T) {
	svc := nexus.NewService(nil)
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	svc.Open(ctx, observer())

	event := <-events
	if event.Kind != nexus.EventSessionOpened || event.EntityID != "observer" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
