package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDrawDate(t *testing.T) {
	t.Parallel()

	saoPaulo := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name  string
		input time.Time
		want  time.Time
	}{
		{
			name:  "midday UTC truncates to midnight",
			input: time.Date(2026, 8, 28, 13, 45, 12, 999, time.UTC),
			want:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "already midnight is unchanged",
			input: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "late evening local time lands on the next UTC day",
			input: time.Date(2026, 8, 28, 22, 30, 0, 0, saoPaulo),
			want:  time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, tt.want.Equal(NormalizeDrawDate(tt.input)))
		})
	}
}

func TestDraw_Settle(t *testing.T) {
	t.Parallel()

	draw := &Draw{DrawDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)}
	assert.False(t, draw.IsSettled())

	prize := int64(500)
	settledAt := time.Now().UTC()
	draw.Settle("71900-90310-03107-00000-11111", 2, &prize, settledAt)

	assert.True(t, draw.IsSettled())
	assert.Equal(t, int64(2), draw.WinnerCount)
	assert.Equal(t, int64(500), *draw.PrizePerWinner)
	assert.Equal(t, "71900-90310-03107-00000-11111", *draw.OfficialResult)
}
