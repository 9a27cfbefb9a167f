// Package conversation drives the data-collection dialog that builds a business profile turn by turn.
package conversation

import (
	"context"
	"errors"

	"business-health-workers/internal/analysis"
	apperrors "business-health-workers/internal/common/errors"
	"business-health-workers/internal/common/logger"
	"business-health-workers/internal/common/metrics"
	"business-health-workers/internal/extraction"
	"business-health-workers/internal/models"
)

// Action tells the presentation layer what to show after a turn.
type Action string

const (
	ActionCollectData          Action = "collect_data"
	ActionAwaitAnalysisConfirm Action = "await_analysis_confirm"
	ActionAnalysisComplete     Action = "analysis_complete"
	ActionCancelled            Action = "cancelled"
)

// Analyzer runs the analysis once the owner confirms.
type Analyzer interface {
	Analyze(ctx context.Context, ownerID, businessID string, profile models.BusinessProfile) (*analysis.Result, error)
}

// FieldStatus is one line of the data summary.
type FieldStatus struct {
	Field    models.Field `json:"field"`
	Required bool         `json:"required"`
	Present  bool         `json:"present"`
	Value    interface{}  `json:"value,omitempty"`
}

// TurnResult is the structured outcome of one message.
type TurnResult struct {
	SessionID        string              `json:"sessionId"`
	BusinessID       string              `json:"businessId,omitempty"`
	State            models.SessionState `json:"state"`
	Action           Action              `json:"action"`
	Signal           Signal              `json:"signal"`
	Sufficiency      Sufficiency         `json:"sufficiency"`
	Summary          []FieldStatus       `json:"summary"`
	ChangedFields    []models.Field      `json:"changedFields,omitempty"`
	ExtractionFailed bool                `json:"extractionFailed,omitempty"`
	Analysis         *analysis.Result    `json:"analysis,omitempty"`
}

// Machine applies the collection state machine to one owner's session per turn.
// Turns for the same owner must be serialized by the caller.
type Machine struct {
	store     SessionStore
	extractor extraction.FieldExtractor
	gate      *Gate
	analyzer  Analyzer
	intents   IntentClassifier
	logger    logger.Logger
}

func NewMachine(store SessionStore, extractor extraction.FieldExtractor, gate *Gate, analyzer Analyzer, log logger.Logger) *Machine {
	return &Machine{
		store:     store,
		extractor: extractor,
		gate:      gate,
		analyzer:  analyzer,
		intents:   NewKeywordClassifier(),
		logger:    logger.ForComponent(log, "conversation"),
	}
}

// WithIntentClassifier replaces the keyword classifier.
func (m *Machine) WithIntentClassifier(c IntentClassifier) *Machine {
	m.intents = c
	return m
}

// Start discards any live session for the owner and opens a new one in COLLECTING.
// A non-empty businessID links the session to an already registered business.
func (m *Machine) Start(ctx context.Context, ownerID, businessID string) (*TurnResult, error) {
	session, err := m.store.Create(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewSessionStoreFailedError("create", err)
	}
	session.BusinessID = businessID

	result := m.newResult(session, SignalText)
	m.begin(session, result)

	if err := m.store.Save(ctx, session); err != nil {
		return nil, apperrors.NewSessionStoreFailedError("save", err)
	}
	return m.finish(session, result), nil
}

// HandleTurn processes one inbound message. A missing or finished session is replaced by a
// fresh one in START. START moves straight to COLLECTING and the same message is extracted
// and merged as the first collecting turn instead of only prompting for input.
func (m *Machine) HandleTurn(ctx context.Context, ownerID, text string) (*TurnResult, error) {
	session, err := m.store.Get(ctx, ownerID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		session = nil
	case err != nil:
		return nil, apperrors.NewSessionStoreFailedError("get", err)
	}

	if session == nil || session.State.IsTerminal() {
		if session, err = m.store.Create(ctx, ownerID); err != nil {
			return nil, apperrors.NewSessionStoreFailedError("create", err)
		}
	}

	signal := m.intents.Classify(text)
	metrics.ConversationTurns.WithLabelValues(string(session.State), string(signal)).Inc()
	session.Turns++

	result := m.newResult(session, signal)
	if session.State == models.StateStart {
		m.begin(session, result)
	}

	switch session.State {
	case models.StateCollecting:
		err = m.collect(ctx, session, signal, text, result)
	case models.StateReadyForAnalysis:
		err = m.confirm(ctx, session, signal, text, result)
	}
	if err != nil {
		return nil, err
	}

	if err := m.persist(ctx, session); err != nil {
		return nil, err
	}
	return m.finish(session, result), nil
}

func (m *Machine) begin(session *models.ConversationSession, result *TurnResult) {
	m.transition(session, models.StateCollecting)
	result.Action = ActionCollectData
	result.Sufficiency = m.gate.Local(session.Profile)
}

func (m *Machine) collect(ctx context.Context, session *models.ConversationSession, signal Signal, text string, result *TurnResult) error {
	if signal == SignalCancel {
		m.cancel(session, result)
		return nil
	}

	if signal.IsAffirmative() && m.gate.Local(session.Profile).IsMinimal() {
		return m.analyze(ctx, session, result)
	}

	if !m.extract(ctx, session, text, result) {
		result.Sufficiency = m.gate.Local(session.Profile)
		result.Action = ActionCollectData
		return nil
	}

	result.Sufficiency = m.gate.Evaluate(ctx, session.Profile)
	if result.Sufficiency.Level == LevelFull {
		m.transition(session, models.StateReadyForAnalysis)
		result.Action = ActionAwaitAnalysisConfirm
		return nil
	}
	result.Action = ActionCollectData
	return nil
}

func (m *Machine) confirm(ctx context.Context, session *models.ConversationSession, signal Signal, text string, result *TurnResult) error {
	switch {
	case signal.IsAffirmative():
		return m.analyze(ctx, session, result)
	case signal == SignalCancel:
		m.cancel(session, result)
		return nil
	}

	if signal == SignalText {
		m.extract(ctx, session, text, result)
	}
	m.transition(session, models.StateCollecting)
	result.Sufficiency = m.gate.Local(session.Profile)
	result.Action = ActionCollectData
	return nil
}

// extract merges whatever the extractor finds. It returns false when extraction failed.
func (m *Machine) extract(ctx context.Context, session *models.ConversationSession, text string, result *TurnResult) bool {
	partial, err := m.extractor.Extract(ctx, text)
	if err != nil {
		result.ExtractionFailed = true
		m.logger.Warn("extraction failed, keeping profile unchanged", map[string]interface{}{
			"sessionId": session.ID,
			"error":     err.Error(),
		})
		return false
	}
	result.ChangedFields = Merge(&session.Profile, partial)
	return true
}

func (m *Machine) analyze(ctx context.Context, session *models.ConversationSession, result *TurnResult) error {
	res, err := m.analyzer.Analyze(ctx, session.OwnerID, session.BusinessID, session.Profile)
	if err != nil {
		m.transition(session, models.StateReadyForAnalysis)
		if saveErr := m.store.Save(ctx, session); saveErr != nil {
			m.logger.Error("failed to save session after analysis error", map[string]interface{}{
				"sessionId": session.ID,
				"error":     saveErr.Error(),
			})
		}
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			return stdErr
		}
		return apperrors.NewAnalysisFailedError(err)
	}

	session.BusinessID = res.Snapshot.BusinessID
	m.transition(session, models.StateCompleted)
	result.Analysis = res
	result.Sufficiency = m.gate.Local(session.Profile)
	result.Action = ActionAnalysisComplete
	return nil
}

func (m *Machine) cancel(session *models.ConversationSession, result *TurnResult) {
	m.transition(session, models.StateCancelled)
	result.Sufficiency = m.gate.Local(session.Profile)
	result.Action = ActionCancelled
}

func (m *Machine) transition(session *models.ConversationSession, to models.SessionState) {
	if session.State == to {
		return
	}
	metrics.ConversationTransitions.WithLabelValues(string(session.State), string(to)).Inc()
	m.logger.Debug("session transition", map[string]interface{}{
		"sessionId": session.ID,
		"from":      session.State,
		"to":        to,
	})
	session.State = to
}

// persist saves a live session and ends a finished one.
func (m *Machine) persist(ctx context.Context, session *models.ConversationSession) error {
	if session.State.IsTerminal() {
		if err := m.store.End(ctx, session.OwnerID); err != nil {
			return apperrors.NewSessionStoreFailedError("end", err)
		}
		return nil
	}
	if err := m.store.Save(ctx, session); err != nil {
		return apperrors.NewSessionStoreFailedError("save", err)
	}
	return nil
}

func (m *Machine) newResult(session *models.ConversationSession, signal Signal) *TurnResult {
	return &TurnResult{SessionID: session.ID, Signal: signal}
}

func (m *Machine) finish(session *models.ConversationSession, result *TurnResult) *TurnResult {
	result.State = session.State
	result.BusinessID = session.BusinessID
	result.Summary = Summarize(session.Profile)
	return result
}

// Summarize lists the required and optional fields with their collected values.
func Summarize(profile models.BusinessProfile) []FieldStatus {
	out := make([]FieldStatus, 0, len(models.RequiredFields)+len(models.OptionalFields))
	add := func(f models.Field, required bool) {
		st := FieldStatus{Field: f, Required: required, Present: profile.Meaningful(f)}
		switch {
		case f == models.FieldBusinessName && profile.Has(f):
			st.Value = profile.Name()
		case profile.Has(f):
			st.Value = profile.Float(f)
		}
		out = append(out, st)
	}
	for _, f := range models.RequiredFields {
		add(f, true)
	}
	for _, f := range models.OptionalFields {
		add(f, false)
	}
	return out
}
