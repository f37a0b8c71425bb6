package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletEntry_Validate(t *testing.T) {
	t.Parallel()

	t.Run("consistent entry", func(t *testing.T) {
		t.Parallel()

		entry := &WalletEntry{
			UserID:        42,
			Amount:        500,
			BalanceBefore: 100,
			BalanceAfter:  600,
			EntryType:     EntryTypePrizeCredit,
		}
		assert.NoError(t, entry.Validate())
	})

	t.Run("zero amount", func(t *testing.T) {
		t.Parallel()

		entry := &WalletEntry{Amount: 0, BalanceBefore: 100, BalanceAfter: 100}
		assert.Error(t, entry.Validate())
	})

	t.Run("inconsistent balances", func(t *testing.T) {
		t.Parallel()

		entry := &WalletEntry{Amount: 500, BalanceBefore: 100, BalanceAfter: 500}
		assert.Error(t, entry.Validate())
	})
}
