package session

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"bank-reconciliation-service/internal/matcher"
	"bank-reconciliation-service/internal/models"
	"bank-reconciliation-service/internal/reporter"
	"bank-reconciliation-service/pkg/errors"
	"bank-reconciliation-service/pkg/logger"
)

const (
	// previewLimit caps how many entries of each result bucket a
	// MatchRunSummary carries.
	previewLimit = 50
	// listLimit caps how many sessions ListSessions returns.
	listLimit = 50
)

// MatchRunSummary is what RunMatch hands back to the caller: the aggregate
// counts plus capped previews of each result bucket. Full results stay on
// the session and flow out through Export.
type MatchRunSummary struct {
	SessionID              string               `json:"session_id"`
	Status                 Status               `json:"status"`
	Summary                matcher.Summary      `json:"summary"`
	MatchedPreview         []matcher.MatchResult `json:"matched_preview"`
	UnmatchedLedgerPreview []models.Transaction  `json:"unmatched_ledger_preview"`
	UnmatchedBankPreview   []models.Transaction  `json:"unmatched_bank_preview"`
}

// Manager is the operations surface over reconciliation sessions. It owns
// the matching engine and serializes match runs per session.
type Manager struct {
	store  Store
	engine *matcher.Engine
	log    logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager over the given store. A nil log
// falls back to the global logger.
func NewManager(store Store, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Manager{
		store:  store,
		engine: matcher.NewEngine(nil),
		log:    log.WithComponent("session_manager"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// CreateSession allocates a new session in the uploaded state.
func (m *Manager) CreateSession(callerRef string) (*Session, error) {
	s := NewSession(callerRef)
	if err := m.store.Save(s); err != nil {
		return nil, err
	}

	m.log.WithFields(logger.Fields{
		"session_id": s.ID,
		"caller_ref": callerRef,
	}).Info("Reconciliation session created")

	return s, nil
}

// GetSession looks up a session by ID.
func (m *Manager) GetSession(sessionID string) (*Session, error) {
	s, ok := m.store.Get(sessionID)
	if !ok {
		return nil, errors.SessionNotFound(sessionID)
	}
	return s, nil
}

// SetLedgerData replaces the session's ledger records. Re-uploading
// replaces the previous list; it never appends.
func (m *Manager) SetLedgerData(sessionID string, records []models.RawRecord) error {
	return m.setData(sessionID, records, "ledger")
}

// SetBankData replaces the session's bank records.
func (m *Manager) SetBankData(sessionID string, records []models.RawRecord) error {
	return m.setData(sessionID, records, "bank")
}

func (m *Manager) setData(sessionID string, records []models.RawRecord, side string) error {
	s, err := m.GetSession(sessionID)
	if err != nil {
		return err
	}

	if side == "ledger" {
		s.LedgerData = records
	} else {
		s.BankData = records
	}
	s.UpdatedAt = time.Now().UTC()

	if err := m.store.Save(s); err != nil {
		return err
	}

	m.log.WithFields(logger.Fields{
		"session_id": sessionID,
		"side":       side,
		"records":    len(records),
	}).Info("Session data uploaded")

	return nil
}

// RunMatch executes a full match run over the session's uploaded data.
// Options passed here replace the session's stored options; nil keeps them.
// The session moves to processing for the duration of the run and ends in
// completed or failed. A failed run never clobbers results from an earlier
// completed run: results are assigned only after a fully successful run.
func (m *Manager) RunMatch(sessionID string, opts *matcher.Options) (*MatchRunSummary, error) {
	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if missing := missingSides(s); missing != "" {
		return nil, errors.IncompleteSession(sessionID, missing)
	}

	if opts != nil {
		if err := opts.Validate(); err != nil {
			return nil, errors.InvalidOptions("matching_options", opts.String(), err)
		}
		s.Options = opts.Clone()
	}

	s.Status = StatusProcessing
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Save(s); err != nil {
		return nil, err
	}

	log := m.log.WithField("session_id", sessionID)
	log.WithFields(logger.Fields{
		"ledger_count": len(s.LedgerData),
		"bank_count":   len(s.BankData),
	}).Info("Match run starting")

	result, runErr := m.runEngine(s)
	if runErr != nil {
		s.Status = StatusFailed
		s.UpdatedAt = time.Now().UTC()
		if saveErr := m.store.Save(s); saveErr != nil {
			log.WithError(saveErr).Error("Failed to persist failed session state")
		}
		log.WithError(runErr).Error("Match run failed")
		return nil, errors.InternalMatching(sessionID, runErr)
	}

	s.Results = &Results{
		Matched:         result.Matched,
		UnmatchedLedger: result.UnmatchedLedger,
		UnmatchedBank:   result.UnmatchedBank,
		Summary:         result.Summarize(),
		CompletedAt:     time.Now().UTC(),
	}
	s.Status = StatusCompleted
	s.UpdatedAt = s.Results.CompletedAt
	if err := m.store.Save(s); err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"matched":             s.Results.Summary.Matched,
		"unmatched_ledger":    s.Results.Summary.UnmatchedLedger,
		"unmatched_bank":      s.Results.Summary.UnmatchedBank,
		"reconciliation_rate": fmt.Sprintf("%.1f%%", s.Results.Summary.ReconciliationRate),
	}).Info("Match run completed")

	return &MatchRunSummary{
		SessionID:              s.ID,
		Status:                 s.Status,
		Summary:                s.Results.Summary,
		MatchedPreview:         s.Results.Matched[:minInt(len(s.Results.Matched), previewLimit)],
		UnmatchedLedgerPreview: s.Results.UnmatchedLedger[:minInt(len(s.Results.UnmatchedLedger), previewLimit)],
		UnmatchedBankPreview:   s.Results.UnmatchedBank[:minInt(len(s.Results.UnmatchedBank), previewLimit)],
	}, nil
}

// runEngine normalizes the raw records and runs the matching engine,
// converting panics from the run into errors so the session can be marked
// failed instead of tearing down the caller.
func (m *Manager) runEngine(s *Session) (result *matcher.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during match run: %v", r)
		}
	}()

	ledger := models.NormalizeAll(s.LedgerData)
	bank := models.NormalizeAll(s.BankData)

	return m.engine.Match(ledger, bank, s.Options)
}

// AddManualMatch records an analyst-entered match on the session. Manual
// matches are accepted in any session state, always carry a score of 100
// and the manual type, and are append-only.
func (m *Manager) AddManualMatch(sessionID string, ledger, bank models.RawRecord, note string) (*ManualMatch, error) {
	s, err := m.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	mm := ManualMatch{
		LedgerTransaction: models.Normalize(ledger),
		BankTransaction:   models.Normalize(bank),
		MatchScore:        100,
		MatchType:         matcher.MatchManual,
		Note:              note,
		CreatedAt:         time.Now().UTC(),
	}

	s.ManualMatches = append(s.ManualMatches, mm)
	s.UpdatedAt = mm.CreatedAt
	if err := m.store.Save(s); err != nil {
		return nil, err
	}

	m.log.WithFields(logger.Fields{
		"session_id":     sessionID,
		"manual_matches": len(s.ManualMatches),
	}).Info("Manual match recorded")

	return &mm, nil
}

// Export writes the session's match results to w in the requested format.
// Only "csv" is supported.
func (m *Manager) Export(sessionID, format string, w io.Writer) error {
	s, err := m.GetSession(sessionID)
	if err != nil {
		return err
	}

	if strings.ToLower(strings.TrimSpace(format)) != "csv" {
		return errors.UnsupportedExportFormat(format)
	}

	if s.Results == nil {
		return errors.New(errors.CategorySession, errors.CodeIncompleteSession,
			fmt.Sprintf("session %s has no match results to export", sessionID)).
			WithSuggestion("run a match before exporting").
			WithContext("session_id", sessionID)
	}

	result := &matcher.Result{
		Matched:         s.Results.Matched,
		UnmatchedLedger: s.Results.UnmatchedLedger,
		UnmatchedBank:   s.Results.UnmatchedBank,
	}
	return reporter.WriteCSV(w, result)
}

// ListSessions returns summaries of the newest sessions, capped at 50.
func (m *Manager) ListSessions() []Summary {
	all := m.store.List()
	if len(all) > listLimit {
		all = all[:listLimit]
	}

	summaries := make([]Summary, 0, len(all))
	for _, s := range all {
		summaries = append(summaries, s.Summarize())
	}
	return summaries
}

// sessionLock returns the per-session mutex serializing match runs, so at
// most one run is in flight per session ID.
func (m *Manager) sessionLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	return lock
}

func missingSides(s *Session) string {
	switch {
	case !s.HasLedgerData() && !s.HasBankData():
		return "ledger and bank"
	case !s.HasLedgerData():
		return "ledger"
	case !s.HasBankData():
		return "bank"
	}
	return ""
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
