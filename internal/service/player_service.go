package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PlayerService is the orchestration layer behind the course player. It
// resolves lessons within their course, dispatches per-type actions to the
// specialised services, and owns the auto-advance countdown timers.
type PlayerService struct {
	content     ContentLoader
	progress    *ProgressService
	quizzes     *QuizService
	submissions *SubmissionService
	videos      *VideoService
	rdb         *redis.Client
	log         zerolog.Logger

	advanceDelay time.Duration
	mu           sync.Mutex
	timers       map[string]*time.Timer
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(
	content ContentLoader,
	progress *ProgressService,
	quizzes *QuizService,
	submissions *SubmissionService,
	videos *VideoService,
	rdb *redis.Client,
	advanceDelay time.Duration,
	log zerolog.Logger,
) *PlayerService {
	return &PlayerService{
		content:      content,
		progress:     progress,
		quizzes:      quizzes,
		submissions:  submissions,
		videos:       videos,
		rdb:          rdb,
		advanceDelay: advanceDelay,
		timers:       make(map[string]*time.Timer),
		log:          log.With().Str("component", "player_service").Logger(),
	}
}

// findLesson resolves a lesson inside a published course.
func (s *PlayerService) findLesson(ctx context.Context, kursusID, lesID uuid.UUID) (*model.Kursus, *model.Les, error) {
	kursus, err := s.content.GetContent(ctx, kursusID)
	if err != nil {
		return nil, nil, err
	}
	les := kursus.FindLes(lesID)
	if les == nil {
		return nil, nil, ErrLessonNotFound
	}
	return kursus, les, nil
}

// CourseOverview returns the content tree with the user's progress.
func (s *PlayerService) CourseOverview(ctx context.Context, gebruikerID, kursusID uuid.UUID) (*model.KursusOorsig, error) {
	kursus, err := s.content.GetContent(ctx, kursusID)
	if err != nil {
		return nil, err
	}

	overall, err := s.progress.CourseProgress(ctx, gebruikerID, kursus)
	if err != nil {
		return nil, err
	}
	records, err := s.progress.ListCourseProgress(ctx, gebruikerID, kursusID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	if records == nil {
		records = []model.Vordering{}
	}

	return &model.KursusOorsig{Kursus: kursus, Vordering: overall, Lesse: records}, nil
}

// OpenLesson returns the full player payload for one lesson and records
// the access. Opening a lesson cancels any pending auto-advance.
func (s *PlayerService) OpenLesson(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID) (*model.LesView, error) {
	kursus, les, err := s.findLesson(ctx, kursusID, lesID)
	if err != nil {
		return nil, err
	}

	s.CancelAutoAdvance(gebruikerID)

	if err := s.progress.TouchAccess(ctx, gebruikerID, kursusID, lesID); err != nil {
		return nil, fmt.Errorf("touch access: %w", err)
	}

	record, err := s.progress.GetLessonProgress(ctx, gebruikerID, lesID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	view := &model.LesView{
		Les:       les,
		Vordering: record,
	}
	if les.Tipe == model.LesTipeVideo {
		view.ResumePosisie = ResumePosition(record)
	}
	if les.Tipe.IsToets() {
		vrae, err := s.quizzes.PlayerQuestions(ctx, lesID)
		if err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
		view.Vrae = vrae
		view.LaastePoging, err = s.quizzes.LatestAttempt(ctx, gebruikerID, lesID)
		if err != nil {
			return nil, fmt.Errorf("load attempt: %w", err)
		}
	}
	if les.Tipe == model.LesTipeOpdrag {
		view.Indiening, err = s.submissions.GetForLesson(ctx, gebruikerID, lesID)
		if err != nil {
			return nil, fmt.Errorf("load submission: %w", err)
		}
	}

	prev, next := neighbours(kursus, lesID)
	view.VorigeLesID = prev
	view.VolgendeLesID = next
	return view, nil
}

// CompleteText marks a text lesson read. Implicit completions come from
// navigating past the lesson; explicit ones from the done button. Both
// count the same.
func (s *PlayerService) CompleteText(ctx context.Context, user *model.Gebruiker, kursusID, lesID uuid.UUID, implisiet bool) (*model.KursusVordering, error) {
	_, overall, err := s.progress.CompleteLesson(ctx, user, kursusID, lesID, model.TeksGelees{Implisiet: implisiet})
	if err != nil {
		return nil, err
	}
	s.scheduleAutoAdvance(ctx, user.ID, kursusID, lesID)
	return overall, nil
}

// SubmitQuiz grades an attempt and, on a pass, completes the lesson. A
// failing attempt is recorded but leaves progress untouched.
func (s *PlayerService) SubmitQuiz(ctx context.Context, user *model.Gebruiker, kursusID, lesID uuid.UUID, antwoorde map[string]string) (*model.QuizUitslag, *model.KursusVordering, error) {
	_, les, err := s.findLesson(ctx, kursusID, lesID)
	if err != nil {
		return nil, nil, err
	}

	uitslag, attempt, err := s.quizzes.SubmitAttempt(ctx, user.ID, les, antwoorde)
	if err != nil {
		return nil, nil, err
	}

	if !uitslag.Geslaag {
		kursus, err := s.content.GetContent(ctx, kursusID)
		if err != nil {
			return nil, nil, err
		}
		overall, err := s.progress.CourseProgress(ctx, user.ID, kursus)
		if err != nil {
			return nil, nil, err
		}
		return uitslag, overall, nil
	}

	_, overall, err := s.progress.CompleteLesson(ctx, user, kursusID, lesID, model.ToetsGeslaag{AttemptID: attempt.ID})
	if err != nil {
		return nil, nil, err
	}
	s.scheduleAutoAdvance(ctx, user.ID, kursusID, lesID)
	return uitslag, overall, nil
}

// SubmitAssignment stores the submission and completes the lesson.
func (s *PlayerService) SubmitAssignment(ctx context.Context, user *model.Gebruiker, kursusID, lesID uuid.UUID, req *model.SubmitOpdragRequest) (*model.Indiening, *model.KursusVordering, error) {
	_, les, err := s.findLesson(ctx, kursusID, lesID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.submissions.Submit(ctx, user.ID, les, req)
	if err != nil {
		return nil, nil, err
	}

	_, overall, err := s.progress.CompleteLesson(ctx, user, kursusID, lesID, model.OpdragIngedien{SubmissionID: record.ID})
	if err != nil {
		return nil, nil, err
	}
	s.scheduleAutoAdvance(ctx, user.ID, kursusID, lesID)
	return record, overall, nil
}

// VideoEnded completes a video lesson on the player's ended event. The
// saved position becomes the full duration.
func (s *PlayerService) VideoEnded(ctx context.Context, user *model.Gebruiker, kursusID, lesID uuid.UUID, duurSekondes int) (*model.KursusVordering, error) {
	_, overall, err := s.progress.CompleteLesson(ctx, user, kursusID, lesID, model.VideoKlaar{DuurSekondes: duurSekondes})
	if err != nil {
		return nil, err
	}
	s.scheduleAutoAdvance(ctx, user.ID, kursusID, lesID)
	return overall, nil
}

// VideoCheckpoint queues a playback position save for a video lesson.
func (s *PlayerService) VideoCheckpoint(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID, posisie, duur int) error {
	_, les, err := s.findLesson(ctx, kursusID, lesID)
	if err != nil {
		return err
	}
	if les.Tipe != model.LesTipeVideo {
		return ErrLessonTypeMismatch
	}
	return s.videos.Checkpoint(ctx, model.VideoCheckpoint{
		GebruikerID: gebruikerID,
		KursusID:    kursusID,
		LesID:       lesID,
		Posisie:     posisie,
		Duur:        duur,
	})
}

// scheduleAutoAdvance starts the countdown to the next lesson after a
// completion. When it fires, an advance event goes out on the user's
// progress channel; opening a lesson or an explicit cancel stops it.
func (s *PlayerService) scheduleAutoAdvance(ctx context.Context, gebruikerID, kursusID, lesID uuid.UUID) {
	if s.advanceDelay <= 0 || s.rdb == nil {
		return
	}

	kursus, err := s.content.GetContent(ctx, kursusID)
	if err != nil {
		return
	}
	_, next := neighbours(kursus, lesID)
	if next == nil {
		return
	}
	nextID := *next

	s.mu.Lock()
	key := gebruikerID.String()
	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	s.timers[key] = time.AfterFunc(s.advanceDelay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()

		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		channel := config.CacheKey.ProgressChannel(gebruikerID)
		if err := s.rdb.Publish(pctx, channel, "advance:"+nextID.String()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Auto-advance publish failed")
		}
	})
	s.mu.Unlock()
}

// CancelAutoAdvance stops the user's pending countdown, if any.
func (s *PlayerService) CancelAutoAdvance(gebruikerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[gebruikerID.String()]; ok {
		t.Stop()
		delete(s.timers, gebruikerID.String())
	}
}

// neighbours returns the previous and next lesson IDs in course order.
func neighbours(kursus *model.Kursus, lesID uuid.UUID) (prev, next *uuid.UUID) {
	lesse := kursus.AlleLesse()
	for i := range lesse {
		if lesse[i].ID == lesID {
			if i > 0 {
				prev = &lesse[i-1].ID
			}
			if i < len(lesse)-1 {
				next = &lesse[i+1].ID
			}
			return prev, next
		}
	}
	return nil, nil
}
