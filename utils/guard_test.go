package utils

import "testing"

func TestRunGuardSkipSemantics(t *testing.T) {
	g := &RunGuard{}

	if !g.TryAcquire() {
		t.Fatal("first TryAcquire should succeed")
	}
	if g.TryAcquire() {
		t.Error("TryAcquire while held should fail, not block")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Error("TryAcquire after Release should succeed")
	}
	g.Release()
}
