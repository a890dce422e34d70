package builtin

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"dai/internal/config"
	"dai/internal/services"
)

// Role and implementation name of the accounts service.
const (
	AccountsRole = "accounts"
	AccountsName = "Accounts"

	// TopicAccountsChange is emitted whenever the current account changes.
	// The payload is an AccountChange.
	TopicAccountsChange = "accounts/CHANGE"
)

// Account is a named address.
type Account struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AccountChange is the payload of TopicAccountsChange.
type AccountChange struct {
	Current Account
	// Present is false when no account is selected any more.
	Present bool
}

// AccountsService keeps the known accounts and the current one. The first
// account added becomes current.
type AccountsService struct {
	*services.BaseService

	mu       sync.RWMutex
	accounts []Account
	current  string
}

// NewAccountsService creates the accounts service.
func NewAccountsService() (*AccountsService, error) {
	s := &AccountsService{}
	base, err := services.NewLocalService(AccountsRole, []string{LogRole, EventRole}, s.initialize)
	if err != nil {
		return nil, err
	}
	s.BaseService = base
	return s, nil
}

// initialize adds the accounts listed in the "accounts" setting, given as
// []Account or as a decoded YAML list of {name, address} maps.
func (s *AccountsService) initialize(_ context.Context, settings services.Settings) error {
	accounts, err := accountsSetting(settings["accounts"])
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		if err := s.AddAccount(acc); err != nil {
			return err
		}
	}
	return nil
}

func accountsSetting(raw interface{}) ([]Account, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []Account:
		return v, nil
	case []interface{}:
		out := make([]Account, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("accounts[%d] must be a map, got %T", i, item)
			}
			name, _ := m["name"].(string)
			address, _ := m["address"].(string)
			out = append(out, Account{Name: name, Address: address})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("setting accounts must be a list, got %T", raw)
	}
}

// AddAccount registers acc. Names must be unique and addresses valid.
func (s *AccountsService) AddAccount(acc Account) error {
	if err := config.ValidateRequired("name", acc.Name, "account"); err != nil {
		return err
	}
	if err := config.ValidateAddress("address", acc.Address); err != nil {
		return err
	}
	acc.Address = strings.ToLower(acc.Address)

	s.mu.Lock()
	if slices.ContainsFunc(s.accounts, func(a Account) bool { return a.Name == acc.Name }) {
		s.mu.Unlock()
		return fmt.Errorf("account %s already exists", acc.Name)
	}
	s.accounts = append(s.accounts, acc)
	becameCurrent := s.current == ""
	if becameCurrent {
		s.current = acc.Name
	}
	s.mu.Unlock()

	s.log().Info("Added account %s (%s)", acc.Name, acc.Address)
	if becameCurrent {
		s.emitChange()
	}
	return nil
}

// UseAccount makes the named account current.
func (s *AccountsService) UseAccount(name string) error {
	s.mu.Lock()
	if !slices.ContainsFunc(s.accounts, func(a Account) bool { return a.Name == name }) {
		s.mu.Unlock()
		return fmt.Errorf("no account named %s", name)
	}
	changed := s.current != name
	s.current = name
	s.mu.Unlock()

	if changed {
		s.emitChange()
	}
	return nil
}

// RemoveAccount forgets the named account. Removing the current account
// leaves no account selected.
func (s *AccountsService) RemoveAccount(name string) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.accounts, func(a Account) bool { return a.Name == name })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("no account named %s", name)
	}
	s.accounts = slices.Delete(s.accounts, idx, idx+1)
	wasCurrent := s.current == name
	if wasCurrent {
		s.current = ""
	}
	s.mu.Unlock()

	s.log().Info("Removed account %s", name)
	if wasCurrent {
		s.emitChange()
	}
	return nil
}

// CurrentAccount returns the selected account.
func (s *AccountsService) CurrentAccount() (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// ListAccounts returns all accounts in the order they were added.
func (s *AccountsService) ListAccounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.accounts)
}

func (s *AccountsService) currentLocked() (Account, bool) {
	for _, a := range s.accounts {
		if a.Name == s.current {
			return a, true
		}
	}
	return Account{}, false
}

func (s *AccountsService) emitChange() {
	acc, ok := s.CurrentAccount()
	s.Get(EventRole).(*EventService).Emit(TopicAccountsChange, AccountChange{Current: acc, Present: ok})
}

func (s *AccountsService) log() *LogService {
	return s.Get(LogRole).(*LogService)
}
