package builtin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dai/internal/provider"
	"dai/internal/services"
)

func TestAccountsService_FromSettings(t *testing.T) {
	tests := []struct {
		name     string
		setting  interface{}
		wantErr  bool
		wantList []Account
	}{
		{
			name:    "typed",
			setting: []Account{{Name: "alice", Address: aliceAddress}},
			wantList: []Account{
				{Name: "alice", Address: aliceAddress},
			},
		},
		{
			name: "missing 0x prefix",
			setting: []interface{}{
				map[string]interface{}{"name": "alice", "address": strings.ToUpper(aliceAddress[2:])},
				map[string]interface{}{"name": "bob", "address": bobAddress},
			},
			wantErr: true,
		},
		{
			name: "decoded yaml",
			setting: []interface{}{
				map[string]interface{}{"name": "alice", "address": "0x" + strings.ToUpper(aliceAddress[2:])},
				map[string]interface{}{"name": "bob", "address": bobAddress},
			},
			wantList: []Account{
				{Name: "alice", Address: aliceAddress},
				{Name: "bob", Address: bobAddress},
			},
		},
		{name: "not a list", setting: "alice", wantErr: true},
		{name: "not a map", setting: []interface{}{"alice"}, wantErr: true},
		{
			name: "duplicate",
			setting: []Account{
				{Name: "alice", Address: aliceAddress},
				{Name: "alice", Address: bobAddress},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := build(t, map[string]provider.ServiceConfig{
				AccountsRole: provider.Enabled(services.Settings{"accounts": tt.setting}),
			})
			err := c.Initialize(t.Context())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			accounts := get[*AccountsService](t, c, AccountsRole)
			assert.Equal(t, tt.wantList, accounts.ListAccounts())
			current, ok := accounts.CurrentAccount()
			require.True(t, ok)
			assert.Equal(t, tt.wantList[0], current)
		})
	}
}

func TestAccountsService_ChangeEvents(t *testing.T) {
	c := initialized(t, map[string]provider.ServiceConfig{AccountsRole: provider.Enabled(nil)})
	accounts := get[*AccountsService](t, c, AccountsRole)
	ev := get[*EventService](t, c, EventRole)

	var changes collector
	ev.On(TopicAccountsChange, changes.handle)

	_, ok := accounts.CurrentAccount()
	assert.False(t, ok)

	require.NoError(t, accounts.AddAccount(Account{Name: "alice", Address: aliceAddress}))
	require.NoError(t, accounts.AddAccount(Account{Name: "bob", Address: bobAddress}))
	require.NoError(t, accounts.UseAccount("bob"))
	require.NoError(t, accounts.UseAccount("bob"))
	require.NoError(t, accounts.RemoveAccount("alice"))
	require.NoError(t, accounts.RemoveAccount("bob"))

	assert.Error(t, accounts.UseAccount("carol"))
	assert.Error(t, accounts.RemoveAccount("carol"))
	assert.Error(t, accounts.AddAccount(Account{Name: "", Address: aliceAddress}))
	assert.Error(t, accounts.AddAccount(Account{Name: "eve", Address: "0x1234"}))

	var got []AccountChange
	for _, e := range changes.list() {
		got = append(got, e.Payload.(AccountChange))
	}
	assert.Equal(t, []AccountChange{
		{Current: Account{Name: "alice", Address: aliceAddress}, Present: true},
		{Current: Account{Name: "bob", Address: bobAddress}, Present: true},
		{Present: false},
	}, got)
	assert.Empty(t, accounts.ListAccounts())
}
