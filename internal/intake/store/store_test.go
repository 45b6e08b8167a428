package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/intake"
	"github.com/unlockgrowth/intake/internal/intake/store"
)

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	st := store.New()

	sess := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, sess))
	assert.False(t, sess.CreatedAt.IsZero())

	assert.Error(t, st.CreateSession(ctx, sess), "duplicate id")

	got, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, st.DeleteSession(ctx, sess.ID))

	_, err = st.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	assert.ErrorIs(t, st.DeleteSession(ctx, sess.ID), intake.ErrNotFound)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := store.New()

	sess := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, sess))

	// Mutating the caller's copy or a snapshot must not leak into the store.
	sess.Business.Name = "Leaked"

	snap, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	snap.CashFlow[0].Inflow = "999"

	got, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Business.Name)
	assert.Empty(t, got.CashFlow[0].Inflow)
}

func TestStore_UpdateSession(t *testing.T) {
	ctx := context.Background()
	st := store.New()

	sess := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, sess))

	got, err := st.UpdateSession(ctx, sess.ID, func(s *evidence.Session) error {
		_, err := s.AddRow(evidence.KindBill)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, got.Bills, 1)

	// A failing mutation leaves the stored session untouched.
	_, err = st.UpdateSession(ctx, sess.ID, func(s *evidence.Session) error {
		_, _ = s.AddRow(evidence.KindBill)
		return errors.New("abort")
	})
	require.Error(t, err)

	got, err = st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Bills, 1)

	_, err = st.UpdateSession(ctx, uuid.New(), func(*evidence.Session) error { return nil })
	assert.ErrorIs(t, err, intake.ErrNotFound)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	st := store.New()

	sess := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, sess))

	const workers = 20

	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			_, err := st.UpdateSession(ctx, sess.ID, func(s *evidence.Session) error {
				_, err := s.AddRow(evidence.KindInvoice)
				return err
			})
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	got, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Invoices, workers)
}

func TestStore_PurgeIdle(t *testing.T) {
	ctx := context.Background()
	st := store.New()

	stale := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, stale))

	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(2 * time.Millisecond)

	fresh := evidence.NewSession()
	require.NoError(t, st.CreateSession(ctx, fresh))

	n, err := st.PurgeIdle(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = st.GetSession(ctx, stale.ID)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	_, err = st.GetSession(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := store.New()

	assert.ErrorIs(t, st.CreateSession(ctx, evidence.NewSession()), context.Canceled)

	_, err := st.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
