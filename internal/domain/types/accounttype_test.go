package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, Main.Valid())
	assert.True(t, Bonus.Valid())
	assert.True(t, Pending.Valid())
	assert.True(t, Jackpot.Valid())
	assert.True(t, System.Valid())
	assert.False(t, AccountType("NOT_A_TYPE").Valid())
}

func TestMaxWithdrawal(t *testing.T) {
	balance := decimal.NewFromInt(100)

	assert.True(t, IsUnbounded(System.MaxWithdrawal(balance)))
	assert.True(t, Pending.MaxWithdrawal(balance).IsZero())
	assert.True(t, Jackpot.MaxWithdrawal(balance).IsZero())
	assert.True(t, Main.MaxWithdrawal(balance).Equal(balance))
	assert.True(t, Bonus.MaxWithdrawal(balance).Equal(balance))
}

func TestCanWithdraw(t *testing.T) {
	balance := decimal.NewFromInt(100)

	assert.True(t, Main.CanWithdraw(balance, decimal.NewFromInt(100)))
	assert.False(t, Main.CanWithdraw(balance, decimal.NewFromInt(101)))
	assert.False(t, Pending.CanWithdraw(balance, decimal.NewFromInt(1)))
	assert.True(t, System.CanWithdraw(balance, decimal.NewFromInt(1_000_000)))
}

func TestParseCurrency(t *testing.T) {
	for _, code := range []string{"EUR", "USD", "CHF"} {
		c, err := ParseCurrency(code)
		assert.NoError(t, err)
		assert.Equal(t, code, c.String())
	}

	_, err := ParseCurrency("XYZ")
	assert.Error(t, err)
}
