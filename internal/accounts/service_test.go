package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/model"
)

func TestNewService(t *testing.T) {
	svc := NewService(DefaultAccounts())
	assert.Len(t, svc.All(), 4)
}

func TestGetEnabled(t *testing.T) {
	svc := NewService(DefaultAccounts())

	acct, ok := svc.Get(model.AccountCreditCard)
	assert.True(t, ok)
	assert.Equal(t, "Credit Card", acct.Label)

	_, ok = svc.Get("cheque")
	assert.False(t, ok)

	assert.True(t, svc.Enabled(model.AccountUPI))
	assert.False(t, svc.Enabled("cheque"))
}

func TestFromNames(t *testing.T) {
	svc, err := FromNames([]string{"upi", "cash"})
	require.NoError(t, err)

	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, model.AccountCash, all[0].Key, "display order kept")
	assert.Equal(t, model.AccountUPI, all[1].Key)
	assert.False(t, svc.Enabled(model.AccountBank))
}

func TestFromNames_EmptyEnablesAll(t *testing.T) {
	svc, err := FromNames(nil)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 4)
}

func TestFromNames_Unknown(t *testing.T) {
	_, err := FromNames([]string{"cash", "barter"})
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	svc := NewService(DefaultAccounts())
	assert.Equal(t, "UPI", svc.Label(model.AccountUPI))
	assert.Equal(t, "cheque", svc.Label("cheque"))
}
