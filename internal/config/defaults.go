package config

const (
	// DefaultURL is the JSON-RPC endpoint of a local development node.
	DefaultURL = "http://localhost:8545"

	// DefaultMetricsAddress is where `dai serve` exposes /metrics when enabled.
	DefaultMetricsAddress = ":9090"
)

// DefaultExtractedServices lists services that used to be built in and now
// ship as plugins.
var DefaultExtractedServices = map[string]string{
	"exchange":   "dai-plugin-exchange",
	"governance": "dai-plugin-governance",
	"price":      "dai-plugin-price",
}

// DefaultConfig returns the configuration used when no config.yaml exists.
func DefaultConfig() Config {
	extracted := make(map[string]string, len(DefaultExtractedServices))
	for name, plugin := range DefaultExtractedServices {
		extracted[name] = plugin
	}

	return Config{
		Preset:            PresetHTTP,
		LogLevel:          "info",
		URL:               DefaultURL,
		AutoAuthenticate:  true,
		ExtractedServices: extracted,
		Metrics: MetricsConfig{
			Address: DefaultMetricsAddress,
		},
	}
}
