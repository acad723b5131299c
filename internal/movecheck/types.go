// Package movecheck puts caching and an audit trail around rules.Diagnose
// for the network-facing surfaces.
package movecheck

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/park285/oh-my-chess/internal/rules"
)

var (
	ErrNilBoard       = errors.New("board is required")
	ErrInvalidMover   = errors.New("mover must be White or Black")
	ErrNoRepository   = errors.New("audit repository not configured")
	ErrDuplicateCheck = errors.New("check already recorded")
	ErrCorruptVerdict = errors.New("corrupt cached verdict")
)

type CheckInput struct {
	Board *rules.Board
	Move  rules.Move
	Mover rules.Player
}

type Outcome struct {
	Legal   bool
	Reason  rules.Reason
	Cached  bool
	CheckID uuid.UUID
}

// AuditRecord is one answered check. Coordinates are stored as received, so
// off-board moves are recorded too.
type AuditRecord struct {
	CheckID     uuid.UUID
	Fingerprint string
	Move        rules.Move
	Mover       rules.Player
	Legal       bool
	Reason      rules.Reason
	Cached      bool
	CheckedAt   time.Time
}

// VerdictCache memoises reasons by position fingerprint.
type VerdictCache interface {
	Get(ctx context.Context, fingerprint string) (rules.Reason, bool, error)
	Put(ctx context.Context, fingerprint string, reason rules.Reason) error
}

type Repository interface {
	InsertCheck(ctx context.Context, rec *AuditRecord) error
	RecentChecks(ctx context.Context, limit int) ([]*AuditRecord, error)
}
