package testhelpers

import (
	"context"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetPendingForDraw(ctx context.Context, drawDate time.Time) ([]*entities.Ticket, error) {
	args := m.Called(ctx, drawDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountSettledForDraw(ctx context.Context, drawDate time.Time) (int64, error) {
	args := m.Called(ctx, drawDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) MarkWinner(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) MarkNotWinner(ctx context.Context, ids []int64, officialResult string, settledAt time.Time) error {
	args := m.Called(ctx, ids, officialResult, settledAt)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByUserForDraw(ctx context.Context, userID int64, drawDate time.Time) ([]*entities.Ticket, error) {
	args := m.Called(ctx, userID, drawDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) GetOrCreateByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	args := m.Called(ctx, drawDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByDate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	args := m.Called(ctx, drawDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) GetByDateForUpdate(ctx context.Context, drawDate time.Time) (*entities.Draw, error) {
	args := m.Called(ctx, drawDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Draw), args.Error(1)
}

func (m *MockDrawRepository) MarkSettled(ctx context.Context, draw *entities.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) GetPendingDates(ctx context.Context, before time.Time) ([]time.Time, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUser(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockWalletEntryRepository is a mock implementation of WalletEntryRepository
type MockWalletEntryRepository struct {
	mock.Mock
}

func (m *MockWalletEntryRepository) Record(ctx context.Context, entry *entities.WalletEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalletEntryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WalletEntry), args.Error(1)
}

// MockPrizePoolRepository is a mock implementation of PrizePoolRepository
type MockPrizePoolRepository struct {
	mock.Mock
}

func (m *MockPrizePoolRepository) Get(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrizePoolRepository) GetForUpdate(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrizePoolRepository) Set(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

func (m *MockPrizePoolRepository) Increment(ctx context.Context, amount int64) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
