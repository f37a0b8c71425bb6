package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zlpix/application"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedTestDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func TestFederalLotteryFeed_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/results/2026-08-28":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"draw_date":"2026-08-28","numbers":["71900","90310","03107","00000","11111"]}`))
		case "/results/2026-08-29":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	feed := NewFederalLotteryFeed(server.URL)

	t.Run("published result", func(t *testing.T) {
		numbers, err := feed.Fetch(context.Background(), feedTestDate)
		require.NoError(t, err)
		assert.Equal(t, []string{"71900", "90310", "03107", "00000", "11111"}, numbers)
	})

	t.Run("not published yet", func(t *testing.T) {
		_, err := feed.Fetch(context.Background(), feedTestDate.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, application.ErrResultUnavailable)
	})

	t.Run("feed failure", func(t *testing.T) {
		_, err := feed.Fetch(context.Background(), feedTestDate.AddDate(0, 0, 2))
		require.Error(t, err)
		assert.NotErrorIs(t, err, application.ErrResultUnavailable)
	})
}

func TestManualResultSource(t *testing.T) {
	t.Parallel()

	source := NewManualResultSource()

	_, err := source.Fetch(context.Background(), feedTestDate)
	assert.ErrorIs(t, err, application.ErrResultUnavailable)

	source.Set(feedTestDate, []string{"71900", "90310", "03107", "00000", "11111"})

	numbers, err := source.Fetch(context.Background(), feedTestDate)
	require.NoError(t, err)
	assert.Len(t, numbers, 5)
}

func TestChainedResultSource_ManualTakesPrecedence(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"numbers":["11111","22222","33333","44444","55555"]}`))
	}))
	defer server.Close()

	manual := NewManualResultSource()
	chained := NewChainedResultSource(manual, NewFederalLotteryFeed(server.URL))

	// Falls through to the feed when no manual override exists
	numbers, err := chained.Fetch(context.Background(), feedTestDate)
	require.NoError(t, err)
	assert.Equal(t, "11111", numbers[0])

	// Manual override wins once set
	manual.Set(feedTestDate, []string{"99999", "88888", "77777", "66666", "55555"})
	numbers, err = chained.Fetch(context.Background(), feedTestDate)
	require.NoError(t, err)
	assert.Equal(t, "99999", numbers[0])
}
