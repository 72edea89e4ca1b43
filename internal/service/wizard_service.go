package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"realtyflow/internal/cache"
	"realtyflow/internal/config"
	"realtyflow/internal/model"
	"realtyflow/internal/questionnaire"
	"realtyflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WizardService hosts questionnaire sessions. Live state is kept in Redis;
// saves and submissions go to MongoDB.
type WizardService struct {
	registry    *questionnaire.Registry
	sessions    cache.SessionCache
	drafts      repository.DraftRepo
	submissions repository.SubmissionRepo
	submitter   Submitter
	broadcaster Broadcaster
	logger      *zap.Logger

	policy         questionnaire.ProgressPolicy
	gateOnRequired bool
	now            func() time.Time

	// per-session locks serialize read-modify-write of the cached session;
	// an entry lives only while some call holds or waits on it
	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewWizardService creates a new wizard service
func NewWizardService(
	registry *questionnaire.Registry,
	sessions cache.SessionCache,
	drafts repository.DraftRepo,
	submissions repository.SubmissionRepo,
	submitter Submitter,
	cfg config.WizardConfig,
	logger *zap.Logger,
) (*WizardService, error) {
	policy, err := questionnaire.ParsePolicy(cfg.ProgressPolicy)
	if err != nil {
		return nil, err
	}
	return &WizardService{
		registry:       registry,
		sessions:       sessions,
		drafts:         drafts,
		submissions:    submissions,
		submitter:      submitter,
		logger:         logger,
		policy:         policy,
		gateOnRequired: cfg.GateOnRequired,
		now:            time.Now,
		locks:          make(map[string]*sessionLock),
	}, nil
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *WizardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Questionnaires lists the registered questionnaires
func (s *WizardService) Questionnaires() []*questionnaire.Questionnaire {
	return s.registry.List()
}

// Questionnaire looks up a registered questionnaire
func (s *WizardService) Questionnaire(id string) (*questionnaire.Questionnaire, error) {
	return s.registry.Get(id)
}

// Start opens a new session positioned on the first visible question
func (s *WizardService) Start(ctx context.Context, ownerID, questionnaireID string) (*model.WizardView, error) {
	q, err := s.registry.Get(questionnaireID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	answers := model.AnswerMap{}
	session := &model.WizardSession{
		ID:              uuid.New().String(),
		QuestionnaireID: q.ID,
		OwnerID:         ownerID,
		Status:          model.SessionActive,
		Answers:         answers,
		Nav:             questionnaire.Start(q, answers),
		StartedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	s.logger.Info("wizard started",
		zap.String("session", session.ID),
		zap.String("questionnaire", q.ID),
		zap.String("owner", ownerID))
	return s.view(q, session), nil
}

// Get returns the current view of a session
func (s *WizardService) Get(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	q, err := s.registry.Get(session.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	return s.view(q, session), nil
}

// List returns the owner's live sessions
func (s *WizardService) List(ctx context.Context, ownerID string) ([]*model.WizardSession, error) {
	return s.sessions.ListByOwner(ctx, ownerID)
}

// SetAnswer replaces one answer. Navigation is re-clamped since the
// visible list of the current section may have changed.
func (s *WizardService) SetAnswer(ctx context.Context, ownerID, sessionID, questionID string, v model.Value) (*model.WizardView, error) {
	return s.update(ctx, ownerID, sessionID, questionID, func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		answers, err := questionnaire.SetAnswer(q, session.Answers, questionID, v)
		if err != nil {
			return err
		}
		session.Answers = answers
		return nil
	})
}

// ToggleOption adds or removes one option of a multi-choice question
func (s *WizardService) ToggleOption(ctx context.Context, ownerID, sessionID, questionID, option string) (*model.WizardView, error) {
	return s.update(ctx, ownerID, sessionID, questionID, func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		question, ok := q.Question(questionID)
		if !ok {
			return fmt.Errorf("%s: %w", questionID, model.ErrUnknownQuestion)
		}
		if question.ValueKind() != model.KindList {
			return &model.ValidationError{Fields: []model.FieldError{{QuestionID: questionID, Message: "not a multiple choice question"}}}
		}
		if len(question.Options) > 0 && !question.HasOption(option) {
			return &model.ValidationError{Fields: []model.FieldError{{QuestionID: questionID, Message: fmt.Sprintf("unknown option %q", option)}}}
		}

		current := questionnaire.GetAnswer(question, session.Answers)
		toggled := questionnaire.ToggleOption(current.Strings(), option)
		answers, err := questionnaire.SetAnswer(q, session.Answers, questionID, model.ListValue(toggled...))
		if err != nil {
			return err
		}
		session.Answers = answers
		return nil
	})
}

// Advance moves to the next visible question. On the last question it is a no-op.
// With gating enabled the current question must validate first.
func (s *WizardService) Advance(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	return s.update(ctx, ownerID, sessionID, "", func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		if s.gateOnRequired {
			if err := questionnaire.ValidateCurrent(q, session.Answers, session.Nav); err != nil {
				return err
			}
		}
		session.Nav, _ = questionnaire.Advance(q, session.Answers, session.Nav)
		return nil
	})
}

// Retreat moves to the previous visible question. On the first question it is a no-op.
func (s *WizardService) Retreat(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	return s.update(ctx, ownerID, sessionID, "", func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		session.Nav, _ = questionnaire.Retreat(q, session.Answers, session.Nav)
		return nil
	})
}

// Save snapshots the answers into the session and persists the session as a draft
func (s *WizardService) Save(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	view, err := s.update(ctx, ownerID, sessionID, "", func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		session.Saved = &model.SavedSnapshot{
			Answers: session.Answers.Clone(),
			Nav:     session.Nav,
			SavedAt: s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, view.Session); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}
	return view, nil
}

// Restore reloads the last saved snapshot. A session that expired from
// the cache is revived from its persisted draft.
func (s *WizardService) Restore(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		session, err = s.drafts.GetByID(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get draft: %w", err)
		}
	}
	if err := checkSession(session, ownerID); err != nil {
		return nil, err
	}
	if session.Saved == nil {
		return nil, fmt.Errorf("no saved draft for session %s: %w", sessionID, model.ErrNotFound)
	}

	q, err := s.registry.Get(session.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	session.Answers = session.Saved.Answers.Clone()
	session.Nav = questionnaire.Clamp(q, session.Answers, session.Saved.Nav)
	return s.commit(ctx, q, session, "")
}

// Submit validates every visible answer and hands the result to the submitter.
// The session does not need to be on its last question.
func (s *WizardService) Submit(ctx context.Context, ownerID, sessionID string) (*model.Submission, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	q, err := s.registry.Get(session.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	if err := questionnaire.Validate(q, session.Answers); err != nil {
		return nil, err
	}

	now := s.now()
	sub := &model.Submission{
		SessionID:       session.ID,
		QuestionnaireID: session.QuestionnaireID,
		OwnerID:         session.OwnerID,
		Answers:         session.Answers.Clone(),
		Progress:        questionnaire.Progress(q, session.Answers, s.policy),
		SubmittedAt:     now,
	}

	result := s.submitter.Submit(ctx, sub)
	if !result.OK() {
		s.logger.Warn("submission rejected", zap.String("session", session.ID), zap.String("error", result.Error))
		return nil, fmt.Errorf("%s: %w", result.Error, model.ErrActionFailed)
	}

	if err := s.submissions.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	session.Status = model.SessionSubmitted
	session.SubmittedAt = &now
	if err := s.sessions.Delete(ctx, session); err != nil {
		s.logger.Warn("failed to drop submitted session", zap.String("session", session.ID), zap.Error(err))
	}
	if err := s.drafts.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("failed to drop draft", zap.String("session", session.ID), zap.Error(err))
	}

	s.logger.Info("wizard submitted",
		zap.String("session", session.ID),
		zap.String("questionnaire", session.QuestionnaireID),
		zap.Int("progress", sub.Progress))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(ownerID, EventWizardSubmitted, sub)
	}
	return sub, nil
}

// Submission returns the stored submission of a session
func (s *WizardService) Submission(ctx context.Context, ownerID, sessionID string) (*model.Submission, error) {
	sub, err := s.submissions.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s: %w", sessionID, model.ErrNotFound)
	}
	if sub.OwnerID != ownerID {
		return nil, model.ErrForbidden
	}
	return sub, nil
}

// Reset clears every answer and returns to the start. The saved snapshot is kept.
func (s *WizardService) Reset(ctx context.Context, ownerID, sessionID string) (*model.WizardView, error) {
	return s.update(ctx, ownerID, sessionID, "", func(q *questionnaire.Questionnaire, session *model.WizardSession) error {
		session.Answers = model.AnswerMap{}
		session.Nav = questionnaire.Start(q, session.Answers)
		return nil
	})
}

// Cancel discards the session and its draft
func (s *WizardService) Cancel(ctx context.Context, ownerID, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session); err != nil {
		return fmt.Errorf("failed to drop session: %w", err)
	}
	if err := s.drafts.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to drop draft: %w", err)
	}

	s.logger.Info("wizard cancelled", zap.String("session", sessionID))
	return nil
}

// update applies fn to a locked session, re-clamps navigation, stores it and
// broadcasts the new progress. questionID is reported in the broadcast.
func (s *WizardService) update(ctx context.Context, ownerID, sessionID, questionID string, fn func(*questionnaire.Questionnaire, *model.WizardSession) error) (*model.WizardView, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	q, err := s.registry.Get(session.QuestionnaireID)
	if err != nil {
		return nil, err
	}
	if err := fn(q, session); err != nil {
		return nil, err
	}
	session.Nav = questionnaire.Clamp(q, session.Answers, session.Nav)
	return s.commit(ctx, q, session, questionID)
}

func (s *WizardService) commit(ctx context.Context, q *questionnaire.Questionnaire, session *model.WizardSession, questionID string) (*model.WizardView, error) {
	session.Status = model.SessionActive
	session.UpdatedAt = s.now()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	view := s.view(q, session)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(session.OwnerID, EventProgressUpdate, ProgressPayload{
			SessionID:       session.ID,
			QuestionnaireID: session.QuestionnaireID,
			Progress:        view.Progress,
			SectionID:       session.Nav.SectionID,
			QuestionID:      questionID,
		})
	}
	return view, nil
}

func (s *WizardService) load(ctx context.Context, ownerID, sessionID string) (*model.WizardSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := checkSession(session, ownerID); err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, model.ErrSessionClosed
	}
	if session.Answers == nil {
		session.Answers = model.AnswerMap{}
	}
	return session, nil
}

func checkSession(session *model.WizardSession, ownerID string) error {
	if session == nil {
		return fmt.Errorf("session: %w", model.ErrNotFound)
	}
	if session.OwnerID != ownerID {
		return model.ErrForbidden
	}
	return nil
}

func (s *WizardService) view(q *questionnaire.Questionnaire, session *model.WizardSession) *model.WizardView {
	view := &model.WizardView{
		Session:          session,
		VisibleQuestions: []model.Question{},
		Progress:         questionnaire.Progress(q, session.Answers, s.policy),
		IsFirst:          questionnaire.IsInitial(q, session.Answers, session.Nav),
		IsLast:           questionnaire.IsTerminal(q, session.Answers, session.Nav),
	}
	if section, ok := q.Section(session.Nav.SectionID); ok {
		view.Section = section
		view.VisibleQuestions = q.VisibleQuestions(section, session.Answers)
	}
	view.Current = questionnaire.Current(q, session.Answers, session.Nav)
	return view
}

func (s *WizardService) lock(sessionID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.locksMu.Unlock()
	}
}
