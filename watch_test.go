package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFileReactsToWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.knot")
	if err := os.WriteFile(path, []byte("; first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 10*time.Millisecond, slog.New(slog.DiscardHandler), func() {
			calls <- struct{}{}
		})
	}()

	waitCall := func(what string) {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("no callback for %s", what)
		}
	}

	waitCall("initial evaluation")
	if err := os.WriteFile(path, []byte("; second\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitCall("file write")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("watchFile returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFileIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.knot")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 10*time.Millisecond, slog.New(slog.DiscardHandler), func() {
			calls <- struct{}{}
		})
	}()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("no initial callback")
	}
	if err := os.WriteFile(filepath.Join(dir, "other.knot"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
		t.Error("callback fired for a different file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatchFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "scene.knot")
	err := watchFile(context.Background(), path, time.Millisecond, slog.New(slog.DiscardHandler), func() {
		t.Error("callback should not run when the watch cannot start")
	})
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
