package coverage_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unlockgrowth/intake/internal/coverage"
)

func TestScore(t *testing.T) {
	type testCase struct {
		name      string
		signals   coverage.Signals
		wantScore int
		wantBadge coverage.Badge
	}

	tests := []testCase{
		{
			name:      "Empty",
			signals:   coverage.Signals{},
			wantScore: 0,
			wantBadge: coverage.BadgeLow,
		},
		{
			name:      "BankAndPOS",
			signals:   coverage.Signals{BankConnected: true, POSConnected: true},
			wantScore: 55,
			wantBadge: coverage.BadgeMedium,
		},
		{
			name: "EverythingSaturates",
			signals: coverage.Signals{
				BankConnected:   true,
				POSConnected:    true,
				RatingsUploaded: true,
				ReceiptCount:    5,
				Bills:           1,
				Rent:            1,
				Invoices:        1,
				Compliance:      1,
			},
			wantScore: 100,
			wantBadge: coverage.BadgeHigh,
		},
		{
			name:      "SingleReceipt",
			signals:   coverage.Signals{ReceiptCount: 1},
			wantScore: 2,
			wantBadge: coverage.BadgeLow,
		},
		{
			name:      "ReceiptsCapAtTen",
			signals:   coverage.Signals{ReceiptCount: 40},
			wantScore: 10,
			wantBadge: coverage.BadgeLow,
		},
		{
			name:      "HugeReceiptCountSaturates",
			signals:   coverage.Signals{BankConnected: true, ReceiptCount: math.MaxInt},
			wantScore: 40,
			wantBadge: coverage.BadgeLow,
		},
		{
			name:      "NegativeReceiptsIgnored",
			signals:   coverage.Signals{ReceiptCount: -3},
			wantScore: 0,
			wantBadge: coverage.BadgeLow,
		},
		{
			name:      "ListsCountOnceRegardlessOfLength",
			signals:   coverage.Signals{Bills: 4, Rent: 2, Invoices: 9, Compliance: 3},
			wantScore: 35,
			wantBadge: coverage.BadgeLow,
		},
		{
			name: "ExactlyEighty",
			signals: coverage.Signals{
				BankConnected: true,
				POSConnected:  true,
				Bills:         1,
				Rent:          1,
				Compliance:    1,
			},
			wantScore: 80,
			wantBadge: coverage.BadgeHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coverage.Evaluate(tt.signals)

			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantBadge, got.Badge)
			assert.Equal(t, tt.wantScore, coverage.Score(tt.signals))
		})
	}
}

func TestBadgeFor(t *testing.T) {
	assert.Equal(t, coverage.BadgeLow, coverage.BadgeFor(0))
	assert.Equal(t, coverage.BadgeLow, coverage.BadgeFor(49))
	assert.Equal(t, coverage.BadgeMedium, coverage.BadgeFor(50))
	assert.Equal(t, coverage.BadgeMedium, coverage.BadgeFor(79))
	assert.Equal(t, coverage.BadgeHigh, coverage.BadgeFor(80))
	assert.Equal(t, coverage.BadgeHigh, coverage.BadgeFor(100))
}

func TestEvaluate_Contributions(t *testing.T) {
	got := coverage.Evaluate(coverage.Signals{BankConnected: true, ReceiptCount: 3})

	assert.Len(t, got.Contributions, 8)

	points := make(map[coverage.Signal]int)
	for _, c := range got.Contributions {
		points[c.Signal] = c.Points
	}

	assert.Equal(t, 30, points[coverage.SignalBank])
	assert.Equal(t, 6, points[coverage.SignalReceipts])
	assert.Equal(t, 0, points[coverage.SignalPOS])
	assert.Equal(t, 36, got.Score)
}

func TestScore_MonotonicAndBounded(t *testing.T) {
	base := coverage.Signals{}

	steps := []func(s *coverage.Signals){
		func(s *coverage.Signals) { s.BankConnected = true },
		func(s *coverage.Signals) { s.ReceiptCount++ },
		func(s *coverage.Signals) { s.Bills++ },
		func(s *coverage.Signals) { s.POSConnected = true },
		func(s *coverage.Signals) { s.ReceiptCount += 4 },
		func(s *coverage.Signals) { s.Rent++ },
		func(s *coverage.Signals) { s.Invoices++ },
		func(s *coverage.Signals) { s.Compliance++ },
		func(s *coverage.Signals) { s.RatingsUploaded = true },
		func(s *coverage.Signals) { s.ReceiptCount += 10 },
	}

	prev := coverage.Score(base)
	for _, step := range steps {
		step(&base)

		score := coverage.Score(base)
		assert.GreaterOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, coverage.MaxScore)

		prev = score
	}

	assert.Equal(t, coverage.Evaluate(base), coverage.Evaluate(base))
}
