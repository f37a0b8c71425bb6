package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zlpix/application"
	"zlpix/domain/entities"
	"zlpix/domain/interfaces"
	"zlpix/domain/testhelpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeUnitOfWork binds the mock repositories without a real transaction
type fakeUnitOfWork struct {
	ticketRepo      *testhelpers.MockTicketRepository
	drawRepo        *testhelpers.MockDrawRepository
	walletRepo      *testhelpers.MockWalletRepository
	walletEntryRepo *testhelpers.MockWalletEntryRepository
	prizePoolRepo   *testhelpers.MockPrizePoolRepository
	eventPublisher  *testhelpers.MockEventPublisher
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	eventPublisher := new(testhelpers.MockEventPublisher)
	eventPublisher.On("Publish", mock.Anything).Return(nil).Maybe()
	return &fakeUnitOfWork{
		ticketRepo:      new(testhelpers.MockTicketRepository),
		drawRepo:        new(testhelpers.MockDrawRepository),
		walletRepo:      new(testhelpers.MockWalletRepository),
		walletEntryRepo: new(testhelpers.MockWalletEntryRepository),
		prizePoolRepo:   new(testhelpers.MockPrizePoolRepository),
		eventPublisher:  eventPublisher,
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) TicketRepository() interfaces.TicketRepository { return u.ticketRepo }
func (u *fakeUnitOfWork) DrawRepository() interfaces.DrawRepository     { return u.drawRepo }
func (u *fakeUnitOfWork) WalletRepository() interfaces.WalletRepository { return u.walletRepo }
func (u *fakeUnitOfWork) WalletEntryRepository() interfaces.WalletEntryRepository {
	return u.walletEntryRepo
}
func (u *fakeUnitOfWork) PrizePoolRepository() interfaces.PrizePoolRepository {
	return u.prizePoolRepo
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.eventPublisher }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) Create() application.UnitOfWork { return f.uow }

func newTestServer(uow *fakeUnitOfWork) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(nil, &fakeFactory{uow: uow}, nil, 500, 500, ":0", "test")
}

// fakeResultRecorder remembers recorded official results
type fakeResultRecorder struct {
	recorded map[string][]string
}

func (r *fakeResultRecorder) Set(drawDate time.Time, numbers []string) {
	if r.recorded == nil {
		r.recorded = make(map[string][]string)
	}
	r.recorded[drawDate.Format("2006-01-02")] = numbers
}

func newTestServerWithRecorder(uow *fakeUnitOfWork, recorder ResultRecorder) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(nil, &fakeFactory{uow: uow}, recorder, 500, 500, ":0", "test")
}

func performRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func TestSettleDrawHandler_InvalidDate(t *testing.T) {
	t.Parallel()

	server := newTestServer(newFakeUnitOfWork())
	w := performRequest(server, http.MethodPost, "/admin/draws/not-a-date/settle",
		`{"numbers":["71900","90310","03107","00000","11111"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettleDrawHandler_InvalidBody(t *testing.T) {
	t.Parallel()

	server := newTestServer(newFakeUnitOfWork())
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettleDrawHandler_InvalidNumbers(t *testing.T) {
	t.Parallel()

	server := newTestServer(newFakeUnitOfWork())
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["123"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettleDrawHandler_InvalidNumbersNotRecorded(t *testing.T) {
	t.Parallel()

	recorder := &fakeResultRecorder{}
	server := newTestServerWithRecorder(newFakeUnitOfWork(), recorder)
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["71900","90310","03107","00000","1111x"]}`)

	// A rejected result must not linger where the worker would refetch it
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, recorder.recorded)
}

func TestSettleDrawHandler_ValidNumbersAreRecorded(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	draw := &entities.Draw{ID: 1, DrawDate: drawDate}
	uow.drawRepo.On("GetOrCreateByDate", mock.Anything, drawDate).Return(draw, nil)
	uow.drawRepo.On("GetByDateForUpdate", mock.Anything, drawDate).Return(draw, nil)
	uow.ticketRepo.On("GetPendingForDraw", mock.Anything, drawDate).Return([]*entities.Ticket{}, nil)

	recorder := &fakeResultRecorder{}
	server := newTestServerWithRecorder(uow, recorder)
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["71900","90310","03107","00000","11111"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"71900", "90310", "03107", "00000", "11111"}, recorder.recorded["2026-08-28"])
}

func TestSettleDrawHandler_AlreadySettled(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	settledAt := time.Now().UTC()
	draw := &entities.Draw{ID: 1, DrawDate: drawDate, SettledAt: &settledAt}
	uow.drawRepo.On("GetOrCreateByDate", mock.Anything, drawDate).Return(draw, nil)
	uow.drawRepo.On("GetByDateForUpdate", mock.Anything, drawDate).Return(draw, nil)

	server := newTestServer(uow)
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["71900","90310","03107","00000","11111"]}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already")
}

func TestSettleDrawHandler_NoTickets(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	draw := &entities.Draw{ID: 1, DrawDate: drawDate}
	uow.drawRepo.On("GetOrCreateByDate", mock.Anything, drawDate).Return(draw, nil)
	uow.drawRepo.On("GetByDateForUpdate", mock.Anything, drawDate).Return(draw, nil)
	uow.ticketRepo.On("GetPendingForDraw", mock.Anything, drawDate).Return([]*entities.Ticket{}, nil)

	server := newTestServer(uow)
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["71900","90310","03107","00000","11111"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no_tickets")
}

func TestSettleDrawHandler_Success(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	draw := &entities.Draw{ID: 1, DrawDate: drawDate}
	uow.drawRepo.On("GetOrCreateByDate", mock.Anything, drawDate).Return(draw, nil)
	uow.drawRepo.On("GetByDateForUpdate", mock.Anything, drawDate).Return(draw, nil)
	uow.ticketRepo.On("GetPendingForDraw", mock.Anything, drawDate).Return([]*entities.Ticket{
		{ID: 1, UserID: 100, Numbers: []string{"19", "00", "07"}, Status: entities.TicketStatusActive},
	}, nil)
	uow.ticketRepo.On("CountSettledForDraw", mock.Anything, drawDate).Return(int64(0), nil)
	uow.prizePoolRepo.On("GetForUpdate", mock.Anything).Return(int64(1000), nil)
	uow.walletRepo.On("GetOrCreate", mock.Anything, int64(100)).Return(&entities.Wallet{UserID: 100}, nil)
	uow.walletRepo.On("Credit", mock.Anything, int64(100), int64(1000)).Return(int64(0), int64(1000), nil)
	uow.walletEntryRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	uow.ticketRepo.On("MarkWinner", mock.Anything, mock.Anything).Return(nil)
	uow.ticketRepo.On("MarkNotWinner", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	uow.prizePoolRepo.On("Set", mock.Anything, int64(500)).Return(nil)
	uow.drawRepo.On("MarkSettled", mock.Anything, draw).Return(nil)

	server := newTestServer(uow)
	w := performRequest(server, http.MethodPost, "/admin/draws/2026-08-28/settle",
		`{"numbers":["71900","90310","03107","00000","11111"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"winner_count":1`)
	assert.Contains(t, w.Body.String(), `"prize_per_winner":1000`)
}

func TestGetDrawHandler_NotFound(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	drawDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	uow.drawRepo.On("GetByDate", mock.Anything, drawDate).Return(nil, nil)

	server := newTestServer(uow)
	w := performRequest(server, http.MethodGet, "/admin/draws/2026-08-28", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPoolHandler(t *testing.T) {
	t.Parallel()

	uow := newFakeUnitOfWork()
	uow.prizePoolRepo.On("Get", mock.Anything).Return(int64(75000), nil)

	server := newTestServer(uow)
	w := performRequest(server, http.MethodGet, "/admin/pool", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":75000`)
}

func TestGetTicketHandler(t *testing.T) {
	t.Parallel()

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(newFakeUnitOfWork())
		w := performRequest(server, http.MethodGet, "/tickets/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		uow.ticketRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		server := newTestServer(uow)
		w := performRequest(server, http.MethodGet, "/tickets/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns settled ticket", func(t *testing.T) {
		t.Parallel()

		prize := int64(50000)
		uow := newFakeUnitOfWork()
		uow.ticketRepo.On("GetByID", mock.Anything, int64(7)).Return(&entities.Ticket{
			ID:          7,
			UserID:      100,
			Numbers:     []string{"19", "00", "07"},
			Stake:       1000,
			DrawDate:    time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			Status:      entities.TicketStatusWinner,
			PrizeAmount: &prize,
		}, nil)

		server := newTestServer(uow)
		w := performRequest(server, http.MethodGet, "/tickets/7", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"WINNER"`)
		assert.Contains(t, w.Body.String(), `"pending":false`)
		assert.Contains(t, w.Body.String(), `"prize_amount":50000`)
	})

	t.Run("active ticket is pending", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		uow.ticketRepo.On("GetByID", mock.Anything, int64(8)).Return(&entities.Ticket{
			ID:       8,
			UserID:   100,
			Numbers:  []string{"19", "00", "07"},
			Stake:    1000,
			DrawDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			Status:   entities.TicketStatusActive,
		}, nil)

		server := newTestServer(uow)
		w := performRequest(server, http.MethodGet, "/tickets/8", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"pending":true`)
	})
}

func TestPlaceTicketHandler(t *testing.T) {
	t.Parallel()

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(newFakeUnitOfWork())
		w := performRequest(server, http.MethodPost, "/tickets", `{"user_id":42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("creates ticket", func(t *testing.T) {
		t.Parallel()

		uow := newFakeUnitOfWork()
		drawDate := entities.NormalizeDrawDate(time.Now().Add(48 * time.Hour))
		uow.drawRepo.On("GetOrCreateByDate", mock.Anything, drawDate).
			Return(&entities.Draw{ID: 1, DrawDate: drawDate}, nil)
		uow.ticketRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		uow.prizePoolRepo.On("Increment", mock.Anything, int64(1500)).Return(nil)

		server := newTestServer(uow)
		w := performRequest(server, http.MethodPost, "/tickets",
			`{"user_id":42,"numbers":["19","00","07"],"stake":1500,"draw_date":"`+drawDate.Format("2006-01-02")+`"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ACTIVE"`)
	})
}
