package model

import (
	"testing"
	"time"
)

func TestAuditTransitions(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	audit := NewAudit(created)

	if !audit.Active() {
		t.Fatalf("audit.Active(): expected true, got false")
	}

	if e, g := created, audit.UpdatedAt; !e.Equal(g) {
		t.Errorf("audit.UpdatedAt: expected %v, got %v", e, g)
	}

	deleted := created.Add(time.Hour)
	audit.SoftDelete(deleted)

	if audit.Active() {
		t.Fatalf("audit.Active(): expected false, got true")
	}

	if e, g := deleted, *audit.DeletedAt; !e.Equal(g) {
		t.Errorf("audit.DeletedAt: expected %v, got %v", e, g)
	}

	if e, g := deleted, audit.UpdatedAt; !e.Equal(g) {
		t.Errorf("audit.UpdatedAt: expected %v, got %v", e, g)
	}

	restored := deleted.Add(time.Hour)
	audit.Restore(restored)

	if !audit.Active() {
		t.Fatalf("audit.Active(): expected true, got false")
	}

	if e, g := restored, audit.UpdatedAt; !e.Equal(g) {
		t.Errorf("audit.UpdatedAt: expected %v, got %v", e, g)
	}

	if e, g := created, audit.CreatedAt; !e.Equal(g) {
		t.Errorf("audit.CreatedAt: expected %v, got %v", e, g)
	}
}

func TestAuditTouchNeverGoesBackward(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	audit := NewAudit(created)
	audit.Touch(created.Add(-time.Minute))

	if e, g := created, audit.UpdatedAt; !e.Equal(g) {
		t.Errorf("audit.UpdatedAt: expected %v, got %v", e, g)
	}

	audit.SoftDelete(created.Add(-time.Hour))

	if audit.DeletedAt.Before(audit.CreatedAt) {
		t.Errorf("audit.DeletedAt: expected not before %v, got %v", audit.CreatedAt, *audit.DeletedAt)
	}
}

func TestPublicIDs(t *testing.T) {
	addresses := []*Address{
		{Identity: Identity{Key: 1, PublicID: "a"}},
		{Identity: Identity{Key: 2, PublicID: "b"}},
	}

	ids := PublicIDs(addresses)

	if e, g := 2, len(ids); e != g {
		t.Fatalf("len(ids): expected %d, got %d", e, g)
	}

	if e, g := PublicID("b"), ids[1]; e != g {
		t.Errorf("ids[1]: expected %v, got %v", e, g)
	}
}
