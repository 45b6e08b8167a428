package intake_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unlockgrowth/intake/internal/coverage"
	"github.com/unlockgrowth/intake/internal/evidence"
	"github.com/unlockgrowth/intake/internal/intake"
)

// applyTo makes UpdateSession run the mutation against sess, the way the
// store does.
func applyTo(sess *evidence.Session) func(context.Context, uuid.UUID, func(*evidence.Session) error) (*evidence.Session, error) {
	return func(_ context.Context, _ uuid.UUID, fn func(*evidence.Session) error) (*evidence.Session, error) {
		work := sess.Clone()
		if err := fn(work); err != nil {
			return nil, err
		}

		*sess = *work

		return work.Clone(), nil
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *intake.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *intake.MockRepository) {
				m.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *intake.MockRepository) {
				m.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(errors.New("store full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := intake.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := intake.NewService(repo)
			got, err := svc.Create(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Len(t, got.CashFlow, 1)
		})
	}
}

func TestService_AddRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	sess := evidence.NewSession()
	repo.EXPECT().UpdateSession(gomock.Any(), sess.ID, gomock.Any()).DoAndReturn(applyTo(sess)).Times(2)

	svc := intake.NewService(repo)

	rowID, err := svc.AddRow(context.Background(), sess.ID, evidence.KindRent)
	require.NoError(t, err)
	require.Len(t, sess.Rent, 1)
	assert.Equal(t, rowID, sess.Rent[0].ID)

	_, err = svc.AddRow(context.Background(), sess.ID, evidence.Kind("pets"))
	assert.ErrorIs(t, err, evidence.ErrUnknownKind)
	assert.Len(t, sess.Rent, 1)
}

func TestService_UpdateField(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	sess := evidence.NewSession()
	cashID := sess.CashFlow[0].ID
	repo.EXPECT().UpdateSession(gomock.Any(), sess.ID, gomock.Any()).DoAndReturn(applyTo(sess)).AnyTimes()

	svc := intake.NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.UpdateField(ctx, sess.ID, evidence.KindCashFlow, cashID, "inflow", "150.50"))
	assert.Equal(t, "150.50", sess.CashFlow[0].Inflow)

	err := svc.UpdateField(ctx, sess.ID, evidence.KindCashFlow, cashID, "colour", "red")
	assert.ErrorIs(t, err, evidence.ErrUnknownField)

	require.NoError(t, svc.RemoveRow(ctx, sess.ID, evidence.KindCashFlow, cashID))
	assert.Empty(t, sess.CashFlow)
}

func TestService_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	id := uuid.New()
	repo.EXPECT().GetSession(gomock.Any(), id).Return(nil, intake.ErrNotFound).Times(4)
	repo.EXPECT().UpdateSession(gomock.Any(), id, gomock.Any()).Return(nil, intake.ErrNotFound)

	svc := intake.NewService(repo)
	ctx := context.Background()

	_, err := svc.Totals(ctx, id)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	_, err = svc.Coverage(ctx, id)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	_, err = svc.Summary(ctx, id)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	_, err = svc.ImportCashFlow(ctx, id, nil)
	assert.ErrorIs(t, err, intake.ErrNotFound)

	_, err = svc.AddRow(ctx, id, evidence.KindBill)
	assert.ErrorIs(t, err, intake.ErrNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	sess := evidence.NewSession()
	sess.Owner.FullName = "Alex Tran"
	repo.EXPECT().UpdateSession(gomock.Any(), sess.ID, gomock.Any()).DoAndReturn(applyTo(sess))

	svc := intake.NewService(repo)

	got, err := svc.UpdateProfile(context.Background(), sess.ID, intake.ProfileParams{
		Business:      &evidence.Business{Name: "Bondi Bakes"},
		Connections:   &evidence.Connections{BankConnected: true, ReceiptCount: 3},
		CommunityNote: new("Known at the markets"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bondi Bakes", got.Business.Name)
	assert.Equal(t, "Alex Tran", got.Owner.FullName, "nil members are untouched")
	assert.True(t, got.Connections.BankConnected)
	assert.Equal(t, "Known at the markets", got.CommunityNote)
}

func TestService_ImportCashFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	sess := evidence.NewSession()
	repo.EXPECT().UpdateSession(gomock.Any(), sess.ID, gomock.Any()).DoAndReturn(applyTo(sess))

	svc := intake.NewService(repo)

	ids, err := svc.ImportCashFlow(context.Background(), sess.ID, []evidence.CashFlowEntry{
		{Date: "2024-01-01", Inflow: "100"},
		{Date: "2024-01-08", Outflow: "40"},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Len(t, sess.CashFlow, 3)
	assert.Equal(t, 2, sess.Totals().WeeksLogged)
}

func TestService_CoverageAndSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	sess := evidence.NewSession()
	sess.Business.Name = "Bondi Bakes"
	sess.Connections = evidence.Connections{BankConnected: true, POSConnected: true}
	repo.EXPECT().GetSession(gomock.Any(), sess.ID).Return(sess, nil).Times(2)

	svc := intake.NewService(repo)

	res, err := svc.Coverage(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, res.Score)
	assert.Equal(t, coverage.BadgeMedium, res.Badge)

	sum, err := svc.Summary(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bondi Bakes", sum.BusinessName)
	assert.Equal(t, 55, sum.Coverage)
	assert.False(t, sum.GeneratedAt.IsZero())
}

func TestService_PurgeIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	start := time.Now()

	repo.EXPECT().
		PurgeIdle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, before time.Time) (int, error) {
			assert.True(t, before.Before(start.Add(-29*time.Minute)))
			return 2, nil
		})

	svc := intake.NewService(repo)

	n, err := svc.PurgeIdle(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPurgeJob_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := intake.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().PurgeIdle(gomock.Any(), gomock.Any()).Return(1, nil),
		repo.EXPECT().PurgeIdle(gomock.Any(), gomock.Any()).Return(0, errors.New("store unavailable")),
	)

	job := intake.NewPurgeJob(intake.NewService(repo), time.Hour)

	assert.Equal(t, "purge-idle-sessions", job.Name())
	require.NoError(t, job.Run())
	assert.ErrorContains(t, job.Run(), "store unavailable")
}
