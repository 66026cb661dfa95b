package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CourseStore is the course persistence surface the service needs.
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Kursus, error)
	ListPublished(ctx context.Context) ([]model.Kursus, error)
	GetWithContent(ctx context.Context, id uuid.UUID) (*model.Kursus, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
}

// CourseService handles the course catalog and the Redis payload cache the
// player reads from.
type CourseService struct {
	courses CourseStore
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses CourseStore, rdb *redis.Client, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		rdb:     rdb,
		log:     log.With().Str("component", "course_service").Logger(),
	}
}

// ListCatalog returns all published, active courses.
func (s *CourseService) ListCatalog(ctx context.Context) ([]model.Kursus, error) {
	courses, err := s.courses.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Kursus{}
	}
	return courses, nil
}

// GetContent returns the full module/lesson tree for a published course,
// preferring the Redis payload cache over PostgreSQL.
func (s *CourseService) GetContent(ctx context.Context, kursusID uuid.UUID) (*model.Kursus, error) {
	key := config.CacheKey.CoursePayloadKey(kursusID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		kursus := &model.Kursus{}
		if err := json.Unmarshal(data, kursus); err == nil {
			return kursus, nil
		}
		// Corrupt cache entry, fall through to PostgreSQL.
		s.log.Warn().Str("kursus_id", kursusID.String()).Msg("Dropping unreadable course payload")
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Course payload cache read failed, using PostgreSQL")
	}

	return s.loadContent(ctx, kursusID)
}

func (s *CourseService) loadContent(ctx context.Context, kursusID uuid.UUID) (*model.Kursus, error) {
	kursus, err := s.courses.GetWithContent(ctx, kursusID)
	if err != nil {
		return nil, err
	}
	if kursus == nil {
		return nil, ErrCourseNotFound
	}
	if !kursus.IsGepubliseer || !kursus.IsAktief {
		return nil, ErrCourseNotPublished
	}
	return kursus, nil
}

// Publish marks a course published and warms its payload cache.
func (s *CourseService) Publish(ctx context.Context, kursusID uuid.UUID) error {
	kursus, err := s.courses.GetWithContent(ctx, kursusID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if kursus == nil {
		return ErrCourseNotFound
	}

	if err := s.courses.SetPublished(ctx, kursusID, true); err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	kursus.IsGepubliseer = true

	if err := s.warmCourseCache(ctx, kursus); err != nil {
		return err
	}

	s.log.Info().Str("kursus_id", kursusID.String()).Msg("Course published")
	return nil
}

// Unpublish hides a course from the catalog and drops its cached payload.
func (s *CourseService) Unpublish(ctx context.Context, kursusID uuid.UUID) error {
	if err := s.courses.SetPublished(ctx, kursusID, false); err != nil {
		return fmt.Errorf("set unpublished: %w", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.CoursePayloadKey(kursusID.String())).Err(); err != nil {
		return fmt.Errorf("drop payload cache: %w", err)
	}

	s.log.Info().Str("kursus_id", kursusID.String()).Msg("Course unpublished")
	return nil
}

// RefreshCache re-caches the payload for a published course. Called when
// content is edited after publish.
func (s *CourseService) RefreshCache(ctx context.Context, kursusID uuid.UUID) error {
	kursus, err := s.loadContent(ctx, kursusID)
	if err != nil {
		return err
	}
	if err := s.warmCourseCache(ctx, kursus); err != nil {
		return err
	}

	s.log.Info().Str("kursus_id", kursusID.String()).Msg("Course cache refreshed")
	return nil
}

// warmCourseCache loads a course's content payload into Redis. Correct
// answers never enter the payload; lesson detail carries only the prompt
// side of quizzes.
func (s *CourseService) warmCourseCache(ctx context.Context, kursus *model.Kursus) error {
	payloadJSON, err := json.Marshal(kursus)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	key := config.CacheKey.CoursePayloadKey(kursus.ID.String())
	if err := s.rdb.Set(ctx, key, payloadJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("kursus_id", kursus.ID.String()).
		Int("modules", len(kursus.Modules)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads all published courses into Redis on application
// startup so the first player request never lazy-loads.
func (s *CourseService) PrewarmAllCaches(ctx context.Context) error {
	courses, err := s.courses.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published courses: %w", err)
	}

	if len(courses) == 0 {
		s.log.Info().Msg("No published courses to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(courses)).Msg("Prewarming published courses...")

	warmed := 0
	for i := range courses {
		kursus, err := s.courses.GetWithContent(ctx, courses[i].ID)
		if err != nil || kursus == nil {
			s.log.Warn().
				Err(err).
				Str("kursus_id", courses[i].ID.String()).
				Msg("Failed to load course, skipping")
			continue
		}
		if err := s.warmCourseCache(ctx, kursus); err != nil {
			s.log.Warn().
				Err(err).
				Str("kursus_id", courses[i].ID.String()).
				Msg("Failed to warm course, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(courses)).
		Msg("Prewarming complete")
	return nil
}
