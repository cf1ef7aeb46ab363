package instance

import (
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.lock")

	l, ok, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !ok {
		t.Fatal("fresh lock not acquired")
	}
	if err := l.Release(); err != nil {
		t.Errorf("Release: %v", err)
	}
}

func TestSecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.lock")

	l, ok, err := Acquire(path)
	if err != nil || !ok {
		t.Fatalf("first Acquire = %v, %v", ok, err)
	}
	defer func() { _ = l.Release() }()

	// flock is per file handle, so a second Flock value in the same process
	// contends like a second process would.
	_, ok, err = Acquire(path)
	if err != nil {
		t.Fatalf("second Acquire errored: %v", err)
	}
	if ok {
		t.Error("second Acquire succeeded while the lock is held")
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.lock")

	l, ok, err := Acquire(path)
	if err != nil || !ok {
		t.Fatalf("Acquire = %v, %v", ok, err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}

	l2, ok, err := Acquire(path)
	if err != nil || !ok {
		t.Fatalf("reacquire = %v, %v", ok, err)
	}
	_ = l2.Release()
}

func TestAcquireUnusablePath(t *testing.T) {
	// The lock file cannot be created under a directory that does not exist.
	path := filepath.Join(t.TempDir(), "missing", "viewer.lock")
	if _, _, err := Acquire(path); err == nil {
		t.Error("expected error for an uncreatable lock file")
	}
}

func TestDefaultPath(t *testing.T) {
	if DefaultPath() == "" {
		t.Error("empty default lock path")
	}
}
