package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/repository"
)

const (
	FirstStep     = 1
	LastStep      = 3
	progressStep  = 25
	startProgress = 25
)

var ErrInvalidTab = errors.New("tab must be standard or eli5")

var stepNames = map[int]string{
	1: "Personal Info",
	2: "Financial Details",
	3: "Results",
}

// NextStep advances the stepper. At the last step nothing changes.
func NextStep(step, progress int) (int, int) {
	if step < LastStep {
		return step + 1, progress + progressStep
	}
	return step, progress
}

// PrevStep moves the stepper back. At the first step nothing changes.
func PrevStep(step, progress int) (int, int) {
	if step > FirstStep {
		return step - 1, progress - progressStep
	}
	return step, progress
}

type AnalyzerService struct {
	sessions *repository.SessionStore[*models.AnalyzerSession]
	logger   *zap.Logger
}

func NewAnalyzerService(sessions *repository.SessionStore[*models.AnalyzerSession], logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{sessions: sessions, logger: logger}
}

func (s *AnalyzerService) Create(ctx context.Context) *models.AnalyzerView {
	now := time.Now().UTC()
	session := &models.AnalyzerSession{
		ID:         uuid.New(),
		Step:       FirstStep,
		StepName:   stepNames[FirstStep],
		Progress:   startProgress,
		ActiveTab:  models.TabStandard,
		Form:       DefaultProfileForm(),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	s.sessions.Put(session.ID, session)
	s.logger.Debug("analyzer session created", zap.String("session_id", session.ID.String()))

	return buildAnalyzerView(session)
}

func (s *AnalyzerService) Get(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return buildAnalyzerView(session), nil
}

func (s *AnalyzerService) UpdateForm(ctx context.Context, id uuid.UUID, patch models.ProfileFormPatch) (*models.AnalyzerView, error) {
	return s.update(id, func(session models.AnalyzerSession) (models.AnalyzerSession, error) {
		session.Form = ApplyProfilePatch(session.Form, patch)
		return session, nil
	})
}

func (s *AnalyzerService) Next(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error) {
	return s.update(id, func(session models.AnalyzerSession) (models.AnalyzerSession, error) {
		session.Step, session.Progress = NextStep(session.Step, session.Progress)
		return session, nil
	})
}

func (s *AnalyzerService) Prev(ctx context.Context, id uuid.UUID) (*models.AnalyzerView, error) {
	return s.update(id, func(session models.AnalyzerSession) (models.AnalyzerSession, error) {
		session.Step, session.Progress = PrevStep(session.Step, session.Progress)
		return session, nil
	})
}

func (s *AnalyzerService) SetTab(ctx context.Context, id uuid.UUID, tab string) (*models.AnalyzerView, error) {
	if tab != models.TabStandard && tab != models.TabELI5 {
		return nil, ErrInvalidTab
	}
	return s.update(id, func(session models.AnalyzerSession) (models.AnalyzerSession, error) {
		session.ActiveTab = tab
		return session, nil
	})
}

// update applies fn to a copy of the session so readers holding the old
// pointer never see a half-applied change.
func (s *AnalyzerService) update(id uuid.UUID, fn func(models.AnalyzerSession) (models.AnalyzerSession, error)) (*models.AnalyzerView, error) {
	session, err := s.sessions.Update(id, func(cur *models.AnalyzerSession) (*models.AnalyzerSession, error) {
		next, err := fn(*cur)
		if err != nil {
			return nil, err
		}
		next.StepName = stepNames[next.Step]
		next.LastSeenAt = time.Now().UTC()
		return &next, nil
	})
	if err != nil {
		return nil, err
	}
	return buildAnalyzerView(session), nil
}

func buildAnalyzerView(session *models.AnalyzerSession) *models.AnalyzerView {
	profile := ProfileFromForm(session.Form)
	result := ComputeCoverage(profile)
	return &models.AnalyzerView{
		Session:     session,
		Result:      result,
		Explanation: ExplainCoverage(profile, result),
	}
}
