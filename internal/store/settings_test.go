package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/servis/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestEnsureSettingKeepsFirstValue(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	v, err := EnsureSetting(ctx, database, "greeting", func() (string, error) { return "hello", nil })
	if err != nil || v != "hello" {
		t.Fatalf("EnsureSetting = %q, %v", v, err)
	}

	v, err = EnsureSetting(ctx, database, "greeting", func() (string, error) { return "bye", nil })
	if err != nil || v != "hello" {
		t.Fatalf("EnsureSetting second call = %q, %v; want hello", v, err)
	}
}

func TestEnsureSettingGeneratorError(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := EnsureSetting(context.Background(), database, "broken", func() (string, error) {
		return "", errors.New("no entropy")
	})
	if err == nil {
		t.Fatal("expected generator error to propagate")
	}
}
