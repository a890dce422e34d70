// Package maker is the entry point applications use to get a working set of
// services.
//
// A Maker is created from a preset and Options. The preset decides which
// roles are configured; the options add the node URL, the initial accounts,
// per-role overrides and plugins. Create builds the container through the
// provider with the built-in resolver, routes lifecycle events to the event
// service and, unless disabled, authenticates every service:
//
//	m, err := maker.Create(ctx, config.PresetHTTP, maker.Options{
//	    URL:              "http://localhost:8545",
//	    AutoAuthenticate: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer m.Shutdown()
//
//	web3, err := maker.ServiceAs[*builtin.Web3Service](m, builtin.Web3Role)
//
// # Plugins
//
// A plugin is any value with a Name. It may additionally implement
// ConfigAdder, BeforeCreator and AfterCreator to hook into the three phases
// of Create. Plugins referenced by name from config.yaml must be registered
// with RegisterPlugin first.
package maker
