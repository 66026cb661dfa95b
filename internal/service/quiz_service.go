package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/rs/zerolog"
)

// QuestionStore loads a lesson's questions, correct answers included.
type QuestionStore interface {
	ListByLesson(ctx context.Context, lesID uuid.UUID) ([]model.Vraag, error)
}

// QuizAttemptStore persists graded attempts.
type QuizAttemptStore interface {
	Insert(ctx context.Context, a *model.QuizAttempt) error
	LatestByUserAndLesson(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.QuizAttempt, error)
}

// QuizService grades quiz and exam attempts. Grading is synchronous and
// in-process; free-text questions score zero pending manual review.
type QuizService struct {
	questions QuestionStore
	attempts  QuizAttemptStore
	log       zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(questions QuestionStore, attempts QuizAttemptStore, log zerolog.Logger) *QuizService {
	return &QuizService{
		questions: questions,
		attempts:  attempts,
		log:       log.With().Str("component", "quiz_service").Logger(),
	}
}

// SubmitAttempt grades a submission against the lesson's questions and
// records the attempt. All questions must be answered. The pass check is
// inclusive: a percentage equal to the threshold passes.
func (s *QuizService) SubmitAttempt(ctx context.Context, gebruikerID uuid.UUID, les *model.Les, antwoorde map[string]string) (*model.QuizUitslag, *model.QuizAttempt, error) {
	if !les.Tipe.IsToets() {
		return nil, nil, ErrLessonTypeMismatch
	}

	questions, err := s.questions.ListByLesson(ctx, les.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	unanswered := 0
	for _, q := range questions {
		if strings.TrimSpace(antwoorde[q.ID.String()]) == "" {
			unanswered++
		}
	}
	if unanswered > 0 {
		return nil, nil, &IncompleteAnswersError{Unanswered: unanswered}
	}

	telling := 0
	maksimum := 0
	hangende := 0
	for _, q := range questions {
		maksimum += q.Punte
		switch q.VraagTipe {
		case model.VraagTipeMCQ, model.VraagTipeTrueFalse:
			if antwoorde[q.ID.String()] == q.KorrekteAntwoord {
				telling += q.Punte
			}
		case model.VraagTipeTeks:
			// Scored zero until manually graded.
			hangende++
		}
	}

	persentasie := 0.0
	if maksimum > 0 {
		persentasie = float64(telling) / float64(maksimum) * 100
	}
	geslaag := persentasie >= les.SlaagPersentasie()

	attempt := &model.QuizAttempt{
		GebruikerID:   gebruikerID,
		LesID:         les.ID,
		Antwoorde:     antwoorde,
		Telling:       telling,
		MaksimumPunte: maksimum,
		Persentasie:   persentasie,
		Geslaag:       geslaag,
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		return nil, nil, fmt.Errorf("insert attempt: %w", err)
	}

	s.log.Info().
		Str("gebruiker_id", gebruikerID.String()).
		Str("les_id", les.ID.String()).
		Float64("persentasie", persentasie).
		Bool("geslaag", geslaag).
		Msg("Quiz attempt graded")

	uitslag := &model.QuizUitslag{
		Telling:           telling,
		MaksimumPunte:     maksimum,
		Persentasie:       persentasie,
		Geslaag:           geslaag,
		TeksPunteHangende: hangende,
	}
	return uitslag, attempt, nil
}

// LatestAttempt returns a user's most recent attempt on a lesson, or nil.
func (s *QuizService) LatestAttempt(ctx context.Context, gebruikerID, lesID uuid.UUID) (*model.QuizAttempt, error) {
	return s.attempts.LatestByUserAndLesson(ctx, gebruikerID, lesID)
}

// PlayerQuestions returns the lesson's questions with the answer key
// stripped, in presentation order.
func (s *QuizService) PlayerQuestions(ctx context.Context, lesID uuid.UUID) ([]model.Vraag, error) {
	questions, err := s.questions.ListByLesson(ctx, lesID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].KorrekteAntwoord = ""
	}
	return questions, nil
}
