// Package session implements the stateful reconciliation session: the unit
// of work spanning upload, matching, manual review, and export for one
// ledger/bank pair. The Manager exposes the operations surface consumed by
// the transport layer; the Store abstracts session persistence.
package session

import (
	"fmt"
	"strings"
	"time"

	"bank-reconciliation-service/internal/matcher"
	"bank-reconciliation-service/internal/models"

	"github.com/google/uuid"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusUploaded is the initial state; it persists while data is being
	// uploaded and until the first match run.
	StatusUploaded Status = "uploaded"
	// StatusProcessing is entered when a match run starts.
	StatusProcessing Status = "processing"
	// StatusCompleted is the normal exit of a match run.
	StatusCompleted Status = "completed"
	// StatusFailed is entered when a match run hits an internal fault.
	StatusFailed Status = "failed"
)

// Results holds the output of one full match run. It is replaced wholesale
// on every successful run, never merged incrementally.
type Results struct {
	Matched         []matcher.MatchResult `json:"matched_transactions"`
	UnmatchedLedger []models.Transaction  `json:"unmatched_ledger"`
	UnmatchedBank   []models.Transaction  `json:"unmatched_bank"`
	Summary         matcher.Summary       `json:"summary"`
	CompletedAt     time.Time             `json:"completed_at"`
}

// ManualMatch is an analyst-entered override. Manual matches form a pure
// annotation layer: they never feed back into the automated engine.
type ManualMatch struct {
	LedgerTransaction models.Transaction `json:"ledger_transaction"`
	BankTransaction   models.Transaction `json:"bank_transaction"`
	MatchScore        int                `json:"match_score"`
	MatchType         matcher.MatchType  `json:"match_type"`
	Note              string             `json:"note"`
	CreatedAt         time.Time          `json:"created_at"`
}

// Session is the aggregate root for one reconciliation workflow.
type Session struct {
	ID            string             `json:"session_id"`
	CallerRef     string             `json:"caller_ref,omitempty"`
	LedgerData    []models.RawRecord `json:"-"`
	BankData      []models.RawRecord `json:"-"`
	Options       *matcher.Options   `json:"matching_options"`
	Results       *Results           `json:"results,omitempty"`
	ManualMatches []ManualMatch      `json:"manual_matches"`
	Status        Status             `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewSession allocates an empty session in the uploaded state.
func NewSession(callerRef string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:            newSessionID(now),
		CallerRef:     callerRef,
		Options:       matcher.DefaultOptions(),
		ManualMatches: []ManualMatch{},
		Status:        StatusUploaded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// newSessionID builds a time-based identifier with a random suffix.
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("recon_%d_%s", now.UnixMilli(), suffix)
}

// HasLedgerData reports whether ledger records have been uploaded.
func (s *Session) HasLedgerData() bool {
	return len(s.LedgerData) > 0
}

// HasBankData reports whether bank records have been uploaded.
func (s *Session) HasBankData() bool {
	return len(s.BankData) > 0
}

// Summary is a compact session listing entry.
type Summary struct {
	SessionID    string    `json:"session_id"`
	CallerRef    string    `json:"caller_ref,omitempty"`
	Status       Status    `json:"status"`
	LedgerCount  int       `json:"ledger_count"`
	BankCount    int       `json:"bank_count"`
	MatchedCount int       `json:"matched_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summarize builds the listing entry for the session.
func (s *Session) Summarize() Summary {
	summary := Summary{
		SessionID:   s.ID,
		CallerRef:   s.CallerRef,
		Status:      s.Status,
		LedgerCount: len(s.LedgerData),
		BankCount:   len(s.BankData),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.Results != nil {
		summary.MatchedCount = len(s.Results.Matched)
	}
	return summary
}
