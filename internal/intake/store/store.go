package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/intake"
)

// Store keeps sessions in memory. Callers only ever see clones, so a
// snapshot handed out can't race with a later mutation.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*evidence.Session
	now      func() time.Time
}

func New() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*evidence.Session),
		now:      time.Now,
	}
}

func (s *Store) CreateSession(ctx context.Context, sess *evidence.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s already exists", sess.ID)
	}

	now := s.now()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	s.sessions[sess.ID] = sess.Clone()

	return nil
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*evidence.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, intake.ErrNotFound
	}

	return sess.Clone(), nil
}

func (s *Store) UpdateSession(ctx context.Context, id uuid.UUID, fn func(*evidence.Session) error) (*evidence.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, intake.ErrNotFound
	}

	work := sess.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}

	work.ID = id
	work.UpdatedAt = s.now()
	s.sessions[id] = work

	return work.Clone(), nil
}

func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return intake.ErrNotFound
	}

	delete(s.sessions, id)

	return nil
}

// PurgeIdle removes sessions last updated before the cutoff.
func (s *Store) PurgeIdle(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int

	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}

	return n, nil
}
