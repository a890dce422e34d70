package builtin

import (
	"dai/internal/provider"
	"dai/internal/services"
)

// Resolver maps the built-in roles and implementation names to factories.
// Roles default to their only implementation; `log: false` selects NullLog.
func Resolver() provider.Resolver {
	return provider.Resolver{
		Services: map[string]provider.Factory{
			LogName:      factory(NewLogService),
			NullLogName:  factory(NewNullLogService),
			TimerName:    factory(NewTimerService),
			EventName:    factory(NewEventService),
			AccountsName: factory(NewAccountsService),
			Web3Name:     factory(NewWeb3Service),
		},
		Defaults: map[string]string{
			LogRole:      LogName,
			TimerRole:    TimerName,
			EventRole:    EventName,
			AccountsRole: AccountsName,
			Web3Role:     Web3Name,
		},
		Disabled: map[string]string{
			LogRole: NullLogName,
		},
	}
}

func factory[S services.Service](build func() (S, error)) provider.Factory {
	return func() (services.Service, error) {
		svc, err := build()
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}
