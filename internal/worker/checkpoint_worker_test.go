package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeSaver struct {
	mu        sync.Mutex
	saved     []model.VideoCheckpoint
	batchErr  error
	singleErr map[uuid.UUID]error
}

func (f *fakeSaver) SaveCheckpoint(_ context.Context, cp model.VideoCheckpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.singleErr[cp.LesID]; err != nil {
		return err
	}
	f.saved = append(f.saved, cp)
	return nil
}

func (f *fakeSaver) BatchSaveCheckpoints(_ context.Context, cps []model.VideoCheckpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.batchErr != nil {
		return f.batchErr
	}
	f.saved = append(f.saved, cps...)
	return nil
}

func (f *fakeSaver) all() []model.VideoCheckpoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.VideoCheckpoint, len(f.saved))
	copy(out, f.saved)
	return out
}

func cpFor(gebruikerID, lesID uuid.UUID, posisie int) model.VideoCheckpoint {
	return model.VideoCheckpoint{
		GebruikerID: gebruikerID,
		KursusID:    uuid.New(),
		LesID:       lesID,
		Posisie:     posisie,
		Duur:        600,
	}
}

func TestDedupeKeepsLastPerUserAndLesson(t *testing.T) {
	gebruiker := uuid.New()
	les := uuid.New()
	ander := uuid.New()
	batch := []model.VideoCheckpoint{
		cpFor(gebruiker, les, 10),
		cpFor(gebruiker, ander, 50),
		cpFor(gebruiker, les, 20),
		cpFor(gebruiker, les, 30),
	}

	out := dedupe(batch)
	if len(out) != 2 {
		t.Fatalf("expected 2 entries after dedupe, got %d", len(out))
	}
	for _, cp := range out {
		if cp.LesID == les && cp.Posisie != 30 {
			t.Fatalf("expected the last position 30 to win, got %d", cp.Posisie)
		}
	}
}

func TestDedupeNoDuplicatesPassesThrough(t *testing.T) {
	gebruiker := uuid.New()
	batch := []model.VideoCheckpoint{
		cpFor(gebruiker, uuid.New(), 10),
		cpFor(gebruiker, uuid.New(), 20),
	}

	out := dedupe(batch)
	if len(out) != 2 {
		t.Fatalf("expected untouched batch, got %d entries", len(out))
	}
}

func TestFlushFallsBackToSingleSaves(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	saver := &fakeSaver{batchErr: errors.New("bulk statement failed")}
	w := NewCheckpointWorker(saver, rdb, zerolog.Nop())

	batch := []model.VideoCheckpoint{
		cpFor(uuid.New(), uuid.New(), 10),
		cpFor(uuid.New(), uuid.New(), 20),
	}
	w.flushSafe(context.Background(), batch)

	if got := saver.all(); len(got) != 2 {
		t.Fatalf("expected both checkpoints saved via fallback, got %d", len(got))
	}
	if n, _ := rdb.LLen(context.Background(), config.WorkerKey.VideoCheckpointQueue).Result(); n != 0 {
		t.Fatalf("nothing should be requeued on fallback success, found %d", n)
	}
}

func TestFlushRequeuesUnsaveableItems(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	badLes := uuid.New()
	saver := &fakeSaver{
		batchErr:  errors.New("bulk statement failed"),
		singleErr: map[uuid.UUID]error{badLes: errors.New("row save failed")},
	}
	w := NewCheckpointWorker(saver, rdb, zerolog.Nop())

	good := cpFor(uuid.New(), uuid.New(), 10)
	bad := cpFor(uuid.New(), badLes, 20)
	w.flushSafe(context.Background(), []model.VideoCheckpoint{good, bad})

	if got := saver.all(); len(got) != 1 || got[0].LesID != good.LesID {
		t.Fatalf("expected only the good checkpoint saved, got %+v", got)
	}

	raw, err := rdb.LPop(context.Background(), config.WorkerKey.VideoCheckpointQueue).Result()
	if err != nil {
		t.Fatalf("expected the failed checkpoint requeued: %v", err)
	}
	var requeued model.VideoCheckpoint
	if err := json.Unmarshal([]byte(raw), &requeued); err != nil {
		t.Fatalf("unmarshal requeued checkpoint: %v", err)
	}
	if requeued.LesID != badLes {
		t.Fatalf("wrong checkpoint requeued: %+v", requeued)
	}
}

func TestStartConsumesQueueAndFlushesOnShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	saver := &fakeSaver{}
	w := NewCheckpointWorker(saver, rdb, zerolog.Nop())

	ctx := context.Background()
	gebruiker := uuid.New()
	for i := 1; i <= 3; i++ {
		raw, _ := json.Marshal(cpFor(gebruiker, uuid.New(), i*10))
		if err := rdb.RPush(ctx, config.WorkerKey.VideoCheckpointQueue, raw).Err(); err != nil {
			t.Fatalf("seed queue: %v", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		w.Start(runCtx)
		close(done)
	}()

	// Give the loop time to pop everything, then shut down; the remaining
	// batch flushes on the way out.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := rdb.LLen(ctx, config.WorkerKey.VideoCheckpointQueue).Result(); n == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	if got := saver.all(); len(got) != 3 {
		t.Fatalf("expected all 3 checkpoints saved, got %d", len(got))
	}
}

func TestStartDrainsLeftoverQueueOnShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	saver := &fakeSaver{}
	w := NewCheckpointWorker(saver, rdb, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Items still queued when shutdown begins are drained row by row.
	raw, _ := json.Marshal(cpFor(uuid.New(), uuid.New(), 99))
	if err := rdb.RPush(context.Background(), config.WorkerKey.VideoCheckpointQueue, raw).Err(); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}

	if got := saver.all(); len(got) != 1 || got[0].Posisie != 99 {
		t.Fatalf("expected the queued checkpoint drained, got %+v", got)
	}
}
