package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/guessnumber/internal/game"
)

// exerciseStore runs the behavior every Store implementation must share.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	sid := uuid.NewString()

	if _, err := st.Get(ctx, sid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for new session, got %v", err)
	}

	ev := game.NewEvaluator(game.FixedSource(33))
	first := ev.StartRound()
	if err := st.Save(ctx, sid, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Get(ctx, sid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != first {
		t.Fatalf("expected %+v, got %+v", first, got)
	}

	won := ev.SubmitGuess(ev.SubmitGuess(first, "10"), "33")
	if err := st.Save(ctx, sid, won); err != nil {
		t.Fatalf("save replacement: %v", err)
	}
	got, err = st.Get(ctx, sid)
	if err != nil {
		t.Fatalf("get replacement: %v", err)
	}
	if got != won {
		t.Fatalf("expected replaced round %+v, got %+v", won, got)
	}

	if err := st.Delete(ctx, sid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, sid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Delete(ctx, sid); err != nil {
		t.Fatalf("delete of missing session should succeed, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close()
	exerciseStore(t, st)
}

func TestSQLiteStore(t *testing.T) {
	st, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer st.Close()
	exerciseStore(t, st)
}

func TestSQLiteStoreClearsRoundsOnOpen(t *testing.T) {
	dsn := t.TempDir() + "/data/rounds.db"
	ctx := context.Background()

	st, err := NewSQLiteStore(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := st.Save(ctx, "s1", game.NewEvaluator(game.FixedSource(5)).StartRound()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(dsn)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected rounds cleared after reopen, got %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	st, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer st.Close()
	exerciseStore(t, st)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "cassandra"})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestOpenDefaultsToMemory(t *testing.T) {
	st, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*memory); !ok {
		t.Fatalf("expected memory store, got %T", st)
	}
}
