package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ResumeTailMargin is the number of trailing seconds within which playback
// restarts from the beginning instead of resuming.
const ResumeTailMargin = 5

// VideoService handles the video checkpoint path. Checkpoints never touch
// PostgreSQL on the request path; they queue in Redis for the batch worker.
type VideoService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewVideoService creates a new VideoService.
func NewVideoService(rdb *redis.Client, log zerolog.Logger) *VideoService {
	return &VideoService{
		rdb: rdb,
		log: log.With().Str("component", "video_service").Logger(),
	}
}

// Checkpoint queues a playback position save. Losing one is harmless; the
// next checkpoint supersedes it.
func (s *VideoService) Checkpoint(ctx context.Context, cp model.VideoCheckpoint) error {
	if cp.Posisie < 0 || cp.Duur < 0 {
		return fmt.Errorf("negative position or duration")
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.VideoCheckpointQueue, data).Err(); err != nil {
		return fmt.Errorf("queue checkpoint: %w", err)
	}
	return nil
}

// ResumePosition returns the second to resume playback from: the saved
// position when it sits strictly inside the video, zero when there is no
// usable save or the viewer was within the tail margin of the end.
func ResumePosition(record *model.Vordering) int {
	if record == nil {
		return 0
	}
	if record.VideoPosisie > 0 && record.VideoPosisie < record.VideoDuur-ResumeTailMargin {
		return record.VideoPosisie
	}
	return 0
}
