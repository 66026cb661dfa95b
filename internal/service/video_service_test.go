package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestResumePosition(t *testing.T) {
	cases := []struct {
		name   string
		record *model.Vordering
		want   int
	}{
		{"no record", nil, 0},
		{"never started", &model.Vordering{VideoPosisie: 0, VideoDuur: 600}, 0},
		{"mid video", &model.Vordering{VideoPosisie: 300, VideoDuur: 600}, 300},
		{"one second in", &model.Vordering{VideoPosisie: 1, VideoDuur: 600}, 1},
		{"just before tail margin", &model.Vordering{VideoPosisie: 594, VideoDuur: 600}, 594},
		{"inside tail margin", &model.Vordering{VideoPosisie: 595, VideoDuur: 600}, 0},
		{"at the end", &model.Vordering{VideoPosisie: 600, VideoDuur: 600}, 0},
		{"no duration saved", &model.Vordering{VideoPosisie: 42, VideoDuur: 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := service.ResumePosition(tc.record); got != tc.want {
				t.Fatalf("ResumePosition() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCheckpointQueuesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := service.NewVideoService(rdb, zerolog.Nop())

	cp := model.VideoCheckpoint{
		GebruikerID: uuid.New(),
		KursusID:    uuid.New(),
		LesID:       uuid.New(),
		Posisie:     120,
		Duur:        600,
	}
	if err := svc.Checkpoint(context.Background(), cp); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	raw, err := rdb.LPop(context.Background(), config.WorkerKey.VideoCheckpointQueue).Result()
	if err != nil {
		t.Fatalf("pop queued checkpoint: %v", err)
	}
	var got model.VideoCheckpoint
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal checkpoint: %v", err)
	}
	if got != cp {
		t.Fatalf("queued %+v, want %+v", got, cp)
	}
}

func TestCheckpointRejectsNegativeValues(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := service.NewVideoService(rdb, zerolog.Nop())

	err := svc.Checkpoint(context.Background(), model.VideoCheckpoint{Posisie: -1, Duur: 600})
	if err == nil {
		t.Fatal("expected an error for a negative position")
	}
	if n, _ := rdb.LLen(context.Background(), config.WorkerKey.VideoCheckpointQueue).Result(); n != 0 {
		t.Fatalf("nothing should be queued, found %d entries", n)
	}
}
