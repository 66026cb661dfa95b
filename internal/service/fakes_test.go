package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/repository"
)

// fakeProgressStore keeps progress records in a map keyed on
// (gebruiker, les), mirroring the table's unique constraint.
type fakeProgressStore struct {
	mu      sync.Mutex
	records map[string]*model.Vordering
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: make(map[string]*model.Vordering)}
}

func progressKey(gebruikerID, lesID uuid.UUID) string {
	return gebruikerID.String() + "/" + lesID.String()
}

func (f *fakeProgressStore) GetByUserAndLesson(_ context.Context, gebruikerID, lesID uuid.UUID) (*model.Vordering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[progressKey(gebruikerID, lesID)]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (f *fakeProgressStore) ListByUserAndCourse(_ context.Context, gebruikerID, kursusID uuid.UUID) ([]model.Vordering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Vordering
	for _, r := range f.records {
		if r.GebruikerID == gebruikerID && r.KursusID == kursusID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeProgressStore) TouchAccess(_ context.Context, gebruikerID, kursusID, lesID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	key := progressKey(gebruikerID, lesID)
	if r, ok := f.records[key]; ok {
		r.LastAccessedAt = &now
		return nil
	}
	f.records[key] = &model.Vordering{
		ID:             uuid.New(),
		GebruikerID:    gebruikerID,
		KursusID:       kursusID,
		LesID:          lesID,
		Status:         model.VorderingBegin,
		LastAccessedAt: &now,
	}
	return nil
}

func (f *fakeProgressStore) MarkComplete(_ context.Context, gebruikerID, kursusID, lesID uuid.UUID, toetsGeslaag *bool, videoDuur int) (*model.Vordering, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	key := progressKey(gebruikerID, lesID)
	r, ok := f.records[key]
	if !ok {
		r = &model.Vordering{
			ID:          uuid.New(),
			GebruikerID: gebruikerID,
			KursusID:    kursusID,
			LesID:       lesID,
		}
		f.records[key] = r
	}
	r.Status = model.VorderingVoltooi
	if toetsGeslaag != nil {
		r.ToetsGeslaag = toetsGeslaag
	}
	if videoDuur > r.VideoDuur {
		r.VideoDuur = videoDuur
		r.VideoPosisie = videoDuur
	}
	if r.VoltooiDatum == nil {
		r.VoltooiDatum = &now
	}
	r.UpdatedAt = now
	c := *r
	return &c, nil
}

// fakeContent serves a fixed course tree.
type fakeContent struct {
	kursus *model.Kursus
}

func (f *fakeContent) GetContent(_ context.Context, kursusID uuid.UUID) (*model.Kursus, error) {
	if f.kursus == nil || f.kursus.ID != kursusID {
		return nil, errors.New("course not found")
	}
	return f.kursus, nil
}

// fakeAwarder records award invocations.
type fakeAwarder struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeAwarder) AwardOnCourseCompletion(_ context.Context, _ *model.Gebruiker, _ *model.Kursus) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeAwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeIssuer records certificate requests.
type fakeIssuer struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeIssuer) RequestIssue(_ *model.Gebruiker, _ *model.Kursus) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeIssuer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeQuestionStore serves fixed questions per lesson.
type fakeQuestionStore struct {
	vrae map[uuid.UUID][]model.Vraag
}

func (f *fakeQuestionStore) ListByLesson(_ context.Context, lesID uuid.UUID) ([]model.Vraag, error) {
	out := make([]model.Vraag, len(f.vrae[lesID]))
	copy(out, f.vrae[lesID])
	return out, nil
}

// fakeAttemptStore appends attempts in memory.
type fakeAttemptStore struct {
	attempts []model.QuizAttempt
}

func (f *fakeAttemptStore) Insert(_ context.Context, a *model.QuizAttempt) error {
	a.ID = uuid.New()
	a.VoltooiOp = time.Now()
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *fakeAttemptStore) LatestByUserAndLesson(_ context.Context, gebruikerID, lesID uuid.UUID) (*model.QuizAttempt, error) {
	for i := len(f.attempts) - 1; i >= 0; i-- {
		if f.attempts[i].GebruikerID == gebruikerID && f.attempts[i].LesID == lesID {
			c := f.attempts[i]
			return &c, nil
		}
	}
	return nil, nil
}

// fakeSubmissionStore upserts by (gebruiker, les) like the table does.
type fakeSubmissionStore struct {
	records map[string]*model.Indiening
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{records: make(map[string]*model.Indiening)}
}

func (f *fakeSubmissionStore) GetByUserAndLesson(_ context.Context, gebruikerID, lesID uuid.UUID) (*model.Indiening, error) {
	r, ok := f.records[progressKey(gebruikerID, lesID)]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (f *fakeSubmissionStore) Upsert(_ context.Context, s *model.Indiening) (*model.Indiening, error) {
	key := progressKey(s.GebruikerID, s.LesID)
	if r, ok := f.records[key]; ok {
		r.TeksAntwoord = s.TeksAntwoord
		r.LeerURL = s.LeerURL
		r.Leernaam = s.Leernaam
		r.Status = model.IndieningIngedien
		r.Punt = nil
		r.GemerkOp = nil
		r.IngedienOp = time.Now()
		c := *r
		return &c, nil
	}
	n := *s
	n.ID = uuid.New()
	n.Status = model.IndieningIngedien
	n.IngedienOp = time.Now()
	f.records[key] = &n
	c := n
	return &c, nil
}

// fakeCredentialStore enforces the (predikant, kursus, jaar) unique key.
type fakeCredentialStore struct {
	mu     sync.Mutex
	grants []model.VBOIndiening
}

func grantKeyMatch(v *model.VBOIndiening, predikantID, kursusID uuid.UUID, jaar int) bool {
	return v.PredikantID == predikantID && v.KursusID == kursusID && v.Jaar == jaar
}

func (f *fakeCredentialStore) FindGrant(_ context.Context, predikantID, kursusID uuid.UUID, jaar int) (*model.VBOIndiening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.grants {
		if grantKeyMatch(&f.grants[i], predikantID, kursusID, jaar) {
			c := f.grants[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCredentialStore) InsertGrant(_ context.Context, v *model.VBOIndiening) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.grants {
		if grantKeyMatch(&f.grants[i], v.PredikantID, v.KursusID, v.Jaar) {
			return repository.ErrGrantExists
		}
	}
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	f.grants = append(f.grants, *v)
	return nil
}

func (f *fakeCredentialStore) ListByPredikant(_ context.Context, predikantID uuid.UUID) ([]model.VBOIndiening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.VBOIndiening
	for _, g := range f.grants {
		if g.PredikantID == predikantID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeCredentialStore) ListRecent(_ context.Context, limit int) ([]model.VBOIndiening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.VBOIndiening
	for i := len(f.grants) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.grants[i])
	}
	return out, nil
}

func (f *fakeCredentialStore) SummaryByYear(_ context.Context, predikantID uuid.UUID) ([]model.VBOJaarOpsomming, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	perYear := make(map[int]*model.VBOJaarOpsomming)
	for _, g := range f.grants {
		if g.PredikantID != predikantID || g.Status != model.VBOStatusGoedgekeur {
			continue
		}
		s, ok := perYear[g.Jaar]
		if !ok {
			s = &model.VBOJaarOpsomming{Jaar: g.Jaar}
			perYear[g.Jaar] = s
		}
		s.TotaleKrediete += g.Krediete
		s.Indienings++
	}
	var out []model.VBOJaarOpsomming
	for _, s := range perYear {
		out = append(out, *s)
	}
	return out, nil
}

// fakeCertificateStore appends certificates in memory.
type fakeCertificateStore struct {
	mu    sync.Mutex
	certs []model.Sertifikaat
}

func (f *fakeCertificateStore) Insert(_ context.Context, s *model.Sertifikaat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = uuid.New()
	f.certs = append(f.certs, *s)
	return nil
}

func (f *fakeCertificateStore) ListByUser(_ context.Context, gebruikerID uuid.UUID) ([]model.Sertifikaat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Sertifikaat
	for _, c := range f.certs {
		if c.GebruikerID == gebruikerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCertificateStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.certs)
}

// buildCourse makes a published course with one module holding the given
// lessons.
func buildCourse(lesse ...model.Les) *model.Kursus {
	kursusID := uuid.New()
	moduleID := uuid.New()
	for i := range lesse {
		lesse[i].KursusID = kursusID
		lesse[i].ModuleID = moduleID
		lesse[i].Volgorde = i
		lesse[i].IsAktief = true
	}
	return &model.Kursus{
		ID:            kursusID,
		Titel:         "Pastorale Sorg 101",
		IsGepubliseer: true,
		IsAktief:      true,
		Modules: []model.Module{{
			ID:       moduleID,
			KursusID: kursusID,
			Titel:    "Module 1",
			IsAktief: true,
			Lesse:    lesse,
		}},
	}
}

func teksLes(titel string) model.Les {
	return model.Les{ID: uuid.New(), Titel: titel, Tipe: model.LesTipeTeks, Detail: model.TeksDetail{Inhoud: "inhoud"}}
}

func videoLes(titel string) model.Les {
	return model.Les{ID: uuid.New(), Titel: titel, Tipe: model.LesTipeVideo, Detail: model.VideoDetail{VideoURL: "https://cdn.example/v.mp4"}}
}

func toetsLes(titel string, slaag float64) model.Les {
	return model.Les{ID: uuid.New(), Titel: titel, Tipe: model.LesTipeToets, Detail: model.ToetsDetail{SlaagPersentasie: slaag}}
}

func opdragLes(titel string) model.Les {
	return model.Les{ID: uuid.New(), Titel: titel, Tipe: model.LesTipeOpdrag, Detail: model.OpdragDetail{Inhoud: "opdrag", MaksimumPunte: 100}}
}
