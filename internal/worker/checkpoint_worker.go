package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	CheckpointBatchSize    = 50
	CheckpointBatchTimeout = 2 * time.Second
	CheckpointPollTimeout  = 1 * time.Second
)

// CheckpointSaver is the persistence surface the worker flushes to.
type CheckpointSaver interface {
	SaveCheckpoint(ctx context.Context, cp model.VideoCheckpoint) error
	BatchSaveCheckpoints(ctx context.Context, cps []model.VideoCheckpoint) error
}

// CheckpointWorker consumes the video checkpoint queue and batch-upserts
// playback positions into PostgreSQL. Request handlers only ever touch
// Redis; this worker is the sole writer on the checkpoint path.
type CheckpointWorker struct {
	saver CheckpointSaver
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewCheckpointWorker creates a new CheckpointWorker.
func NewCheckpointWorker(saver CheckpointSaver, rdb *redis.Client, log zerolog.Logger) *CheckpointWorker {
	return &CheckpointWorker{
		saver: saver,
		rdb:   rdb,
		log:   log.With().Str("component", "checkpoint_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; it exits after the
// context is cancelled and the remaining batch is flushed.
func (w *CheckpointWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CheckpointWorker started")

	batch := make([]model.VideoCheckpoint, 0, CheckpointBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= CheckpointBatchSize || time.Since(lastFlush) >= CheckpointBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			w.drain(context.Background())
			w.log.Info().Msg("CheckpointWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, CheckpointPollTimeout, config.WorkerKey.VideoCheckpointQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var cp model.VideoCheckpoint
			if err := json.Unmarshal([]byte(item[1]), &cp); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, cp)
		}
	}
}

// flushSafe writes a batch, falling back to single-row upserts when the
// bulk statement fails. Unsaveable items are requeued.
func (w *CheckpointWorker) flushSafe(ctx context.Context, batch []model.VideoCheckpoint) {
	if len(batch) == 0 {
		return
	}

	deduped := dedupe(batch)

	if err := w.saver.BatchSaveCheckpoints(ctx, deduped); err != nil {
		w.log.Warn().Err(err).Msg("bulk checkpoint save failed, using fallback")

		for _, cp := range deduped {
			if err := w.saver.SaveCheckpoint(ctx, cp); err != nil {
				w.log.Error().Err(err).Msg("single checkpoint save failed — requeueing")
				raw, _ := json.Marshal(cp)
				w.rdb.RPush(ctx, config.WorkerKey.VideoCheckpointQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(deduped)).Msg("Checkpoint batch flushed")
}

// dedupe keeps only the last checkpoint per (gebruiker, les). A bulk
// upsert cannot touch the same row twice in one statement, and earlier
// positions are superseded anyway.
func dedupe(batch []model.VideoCheckpoint) []model.VideoCheckpoint {
	type key struct {
		gebruiker string
		les       string
	}
	last := make(map[key]int, len(batch))
	for i, cp := range batch {
		last[key{cp.GebruikerID.String(), cp.LesID.String()}] = i
	}

	if len(last) == len(batch) {
		return batch
	}

	out := make([]model.VideoCheckpoint, 0, len(last))
	for i, cp := range batch {
		if last[key{cp.GebruikerID.String(), cp.LesID.String()}] == i {
			out = append(out, cp)
		}
	}
	return out
}

// drain empties whatever is still queued before shutdown.
func (w *CheckpointWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.VideoCheckpointQueue).Result()
		if err != nil {
			break
		}

		var cp model.VideoCheckpoint
		if err := json.Unmarshal([]byte(result), &cp); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.saver.SaveCheckpoint(ctx, cp); err != nil {
			w.log.Error().Err(err).Msg("Drain save error")
			w.rdb.RPush(ctx, config.WorkerKey.VideoCheckpointQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining checkpoints")
	}
}
