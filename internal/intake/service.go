package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/summary"
)

var ErrNotFound = errors.New("session not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=intake
type Repository interface {
	CreateSession(ctx context.Context, s *evidence.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*evidence.Session, error)
	// UpdateSession applies fn to the stored session under the store's lock
	// and returns a snapshot of the result. An error from fn discards the change.
	UpdateSession(ctx context.Context, id uuid.UUID, fn func(s *evidence.Session) error) (*evidence.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	PurgeIdle(ctx context.Context, before time.Time) (int, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ProfileParams is a partial update of the session-level fields. Nil
// members are left untouched.
type ProfileParams struct {
	Business      *evidence.Business
	Owner         *evidence.Owner
	Connections   *evidence.Connections
	Consent       *evidence.Consent
	CommunityNote *string
}

func (s *Service) Create(ctx context.Context) (*evidence.Session, error) {
	sess := evidence.NewSession()
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*evidence.Session, error) {
	return s.repo.GetSession(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSession(ctx, id)
}

func (s *Service) AddRow(ctx context.Context, id uuid.UUID, kind evidence.Kind) (uuid.UUID, error) {
	var rowID uuid.UUID

	_, err := s.repo.UpdateSession(ctx, id, func(sess *evidence.Session) error {
		var err error
		rowID, err = sess.AddRow(kind)

		return err
	})
	if err != nil {
		return uuid.Nil, err
	}

	return rowID, nil
}

func (s *Service) RemoveRow(ctx context.Context, id uuid.UUID, kind evidence.Kind, rowID uuid.UUID) error {
	_, err := s.repo.UpdateSession(ctx, id, func(sess *evidence.Session) error {
		return sess.RemoveRow(kind, rowID)
	})

	return err
}

func (s *Service) UpdateField(ctx context.Context, id uuid.UUID, kind evidence.Kind, rowID uuid.UUID, field, value string) error {
	_, err := s.repo.UpdateSession(ctx, id, func(sess *evidence.Session) error {
		return sess.UpdateField(kind, rowID, field, value)
	})

	return err
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, params ProfileParams) (*evidence.Session, error) {
	return s.repo.UpdateSession(ctx, id, func(sess *evidence.Session) error {
		if params.Business != nil {
			sess.Business = *params.Business
		}

		if params.Owner != nil {
			sess.Owner = *params.Owner
		}

		if params.Connections != nil {
			sess.Connections = *params.Connections
		}

		if params.Consent != nil {
			sess.Consent = *params.Consent
		}

		if params.CommunityNote != nil {
			sess.CommunityNote = *params.CommunityNote
		}

		return nil
	})
}

// ImportCashFlow appends parsed entries to the session's cash-flow log and
// returns the ids assigned to them.
func (s *Service) ImportCashFlow(ctx context.Context, id uuid.UUID, entries []evidence.CashFlowEntry) ([]uuid.UUID, error) {
	if len(entries) == 0 {
		if _, err := s.repo.GetSession(ctx, id); err != nil {
			return nil, err
		}

		return nil, nil
	}

	var ids []uuid.UUID

	_, err := s.repo.UpdateSession(ctx, id, func(sess *evidence.Session) error {
		ids = sess.AppendCashFlow(entries)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import cash flow: %w", err)
	}

	return ids, nil
}

func (s *Service) Totals(ctx context.Context, id uuid.UUID) (evidence.Totals, error) {
	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return evidence.Totals{}, err
	}

	return sess.Totals(), nil
}

func (s *Service) Coverage(ctx context.Context, id uuid.UUID) (coverage.Result, error) {
	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return coverage.Result{}, err
	}

	return coverage.Evaluate(sess.Signals()), nil
}

func (s *Service) Summary(ctx context.Context, id uuid.UUID) (summary.Summary, error) {
	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return summary.Summary{}, err
	}

	return summary.Project(sess, s.now()), nil
}

// PurgeIdle drops every session not touched within ttl.
func (s *Service) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	n, err := s.repo.PurgeIdle(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}

	return n, nil
}
