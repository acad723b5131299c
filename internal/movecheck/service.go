package movecheck

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/oh-my-chess/internal/rules"
)

type Service struct {
	cache  VerdictCache
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

type Option func(*Service)

func WithCache(c VerdictCache) Option { return func(s *Service) { s.cache = c } }

func WithRepository(r Repository) Option { return func(s *Service) { s.repo = r } }

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func withClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop(), now: time.Now, newID: uuid.New}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check answers one move query. Cache and audit failures are logged and never
// change the verdict.
func (s *Service) Check(ctx context.Context, in CheckInput) (*Outcome, error) {
	if in.Board == nil {
		return nil, ErrNilBoard
	}
	if !in.Mover.Valid() {
		return nil, ErrInvalidMover
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()
	fp := Fingerprint(in.Board, in.Move, in.Mover)

	reason, cached := s.lookup(ctx, fp)
	if !cached {
		reason = rules.Diagnose(in.Board, in.Move, in.Mover)
		s.store(ctx, fp, reason)
	}

	out := &Outcome{Legal: reason.Legal(), Reason: reason, Cached: cached, CheckID: s.newID()}
	s.audit(ctx, &AuditRecord{
		CheckID:     out.CheckID,
		Fingerprint: fp,
		Move:        in.Move,
		Mover:       in.Mover,
		Legal:       out.Legal,
		Reason:      reason,
		Cached:      cached,
		CheckedAt:   start.UTC(),
	})

	s.logger.Info("move_check",
		zap.String("check_id", out.CheckID.String()),
		zap.String("move", in.Move.String()),
		zap.String("mover", in.Mover.String()),
		zap.Bool("legal", out.Legal),
		zap.String("reason", reason.String()),
		zap.Bool("cached", cached),
		zap.Duration("elapsed", s.now().Sub(start)),
	)
	return out, nil
}

func (s *Service) lookup(ctx context.Context, fp string) (rules.Reason, bool) {
	if s.cache == nil {
		return 0, false
	}
	r, ok, err := s.cache.Get(ctx, fp)
	if err != nil {
		s.logger.Warn("verdict_cache_error", zap.String("op", "get"), zap.Error(err))
		return 0, false
	}
	return r, ok
}

func (s *Service) store(ctx context.Context, fp string, r rules.Reason) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, fp, r); err != nil {
		s.logger.Warn("verdict_cache_error", zap.String("op", "put"), zap.Error(err))
	}
}

func (s *Service) audit(ctx context.Context, rec *AuditRecord) {
	if s.repo == nil {
		return
	}
	if err := s.repo.InsertCheck(ctx, rec); err != nil && !errors.Is(err, ErrDuplicateCheck) {
		s.logger.Warn("audit_insert_error", zap.String("check_id", rec.CheckID.String()), zap.Error(err))
	}
}

// PathClear is rules.IsPathClear; it is neither cached nor audited.
func (s *Service) PathClear(board *rules.Board, move rules.Move, dir rules.Direction) bool {
	return rules.IsPathClear(board, move, dir)
}

func (s *Service) RecentChecks(ctx context.Context, limit int) ([]*AuditRecord, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.RecentChecks(ctx, limit)
}

// AuditEnabled reports whether checks are being recorded.
func (s *Service) AuditEnabled() bool { return s.repo != nil }
