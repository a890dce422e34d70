// Package builtin contains the services every dai container can use
// without plugins:
//
//   - log (LOCAL): structured logging for other services; NullLog discards
//   - timer (LOCAL, needs log): named one-shot and repeating timers
//   - event (LOCAL, needs log): topic based publish/subscribe on an events.Bus
//   - accounts (LOCAL, needs log and event): the set of known accounts and
//     the current one
//   - web3 (PRIVATE, needs log, timer, event and accounts): a JSON-RPC
//     connection to an Ethereum node, authenticated by the current account
//
// Resolver returns the provider.Resolver that maps role names and
// implementation names to these services.
package builtin
