package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/torosent/reqbench/internal/httpclient"
)

// EnvPrefix prefixes every environment variable the loader reads, e.g.
// REQBENCH_WORKERS.
const EnvPrefix = "REQBENCH"

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

var envKeys = []string{
	"target", "workers", "requests", "timeout", "format", "verbose", "debug",
	"history_file", "results_db", "thresholds",
	"tracing.endpoint", "tracing.protocol", "tracing.service_name",
	"tracing.sample_rate", "tracing.insecure",
}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments, the optional config file and REQBENCH_
// environment variables into a Config. Precedence is flags, then
// environment, then file, then defaults.
func (l Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	cfgViper.SetEnvPrefix(EnvPrefix)
	cfgViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := cfgViper.BindEnv(key); err != nil {
			return nil, err
		}
	}
	cfgViper.AutomaticEnv()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	settings := cfgViper.AllSettings()

	cfg := &Config{
		TargetURL:         DefaultTarget,
		Workers:           DefaultWorkers,
		RequestsPerWorker: DefaultRequestsPerWorker,
		Format:            FormatText,
		ConfigFile:        configPath,
		Tracing:           TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}

	if err := applyConfigSettings(cfg, settings); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	cfg.Format = OutputFormat(strings.ToLower(strings.TrimSpace(string(cfg.Format))))
	if len(cfg.Variants) == 0 {
		cfg.Variants = DefaultVariants()
	}

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "target"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "workers"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		cfg.Workers = val
	}

	if raw, ok := lookupSetting(settings, "requests", "requests_per_worker", "requestsPerWorker"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("requests: %w", err)
		}
		cfg.RequestsPerWorker = val
	}

	if raw, ok := lookupSetting(settings, "timeout"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = val
	}

	if raw, ok := lookupSetting(settings, "format"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("format: %w", err)
		}
		if val != "" {
			cfg.Format = OutputFormat(val)
		}
	}

	if raw, ok := lookupSetting(settings, "verbose"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("verbose: %w", err)
		}
		cfg.Verbose = val
	}

	if raw, ok := lookupSetting(settings, "debug"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		cfg.Debug = val
	}

	if raw, ok := lookupSetting(settings, "history_file", "historyFile"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("history_file: %w", err)
		}
		cfg.HistoryFile = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "results_db", "resultsDB"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("results_db: %w", err)
		}
		cfg.ResultsDB = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		val, err := parseThresholds(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = val
	}

	if raw, ok := lookupSetting(settings, "variants"); ok {
		variants, err := parseVariants(raw)
		if err != nil {
			return fmt.Errorf("variants: %w", err)
		}
		cfg.Variants = variants
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		tracing, err := parseTracing(raw, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		cfg.Tracing = tracing
	}

	return nil
}

// parseThresholds accepts a list or, from the environment, a comma
// separated string.
func parseThresholds(value interface{}) ([]string, error) {
	if s, ok := value.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	return asStringSlice(value)
}

func parseVariants(value interface{}) ([]Variant, error) {
	items, err := toInterfaceSlice(value)
	if err != nil {
		return nil, err
	}
	variants := make([]Variant, 0, len(items))
	for idx, item := range items {
		settings, err := toStringKeyMap(item)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", idx, err)
		}
		v, err := buildVariant(settings)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", idx, err)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// buildVariant fills a variant from its config map. The adapter defaults to
// the variant name and the kind to the adapter's own kind.
func buildVariant(settings map[string]interface{}) (Variant, error) {
	var v Variant
	if raw, ok := lookupSetting(settings, "name"); ok {
		val, err := asString(raw)
		if err != nil {
			return v, fmt.Errorf("name: %w", err)
		}
		v.Name = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "client", "adapter"); ok {
		val, err := asString(raw)
		if err != nil {
			return v, fmt.Errorf("client: %w", err)
		}
		v.Client = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(settings, "kind"); ok {
		val, err := asString(raw)
		if err != nil {
			return v, fmt.Errorf("kind: %w", err)
		}
		v.Kind = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(settings, "timeout"); ok {
		val, err := asDuration(raw)
		if err != nil {
			return v, fmt.Errorf("timeout: %w", err)
		}
		v.Timeout = val
	}

	if v.Client == "" {
		v.Client = v.Name
	}
	if v.Name == "" {
		v.Name = v.Client
	}
	if v.Kind == "" {
		if adapter, err := httpclient.Lookup(v.Client); err == nil {
			v.Kind = string(adapter.Kind)
		}
	}
	return v, nil
}

func parseTracing(value interface{}, base TracingConfig) (TracingConfig, error) {
	settings, err := toStringKeyMap(value)
	if err != nil {
		return base, err
	}
	cfg := base
	if raw, ok := lookupSetting(settings, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return cfg, fmt.Errorf("endpoint: %w", err)
		}
		cfg.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return cfg, fmt.Errorf("protocol: %w", err)
		}
		if val = strings.ToLower(strings.TrimSpace(val)); val != "" {
			cfg.Protocol = val
		}
	}
	if raw, ok := lookupSetting(settings, "service_name", "serviceName"); ok {
		val, err := asString(raw)
		if err != nil {
			return cfg, fmt.Errorf("service_name: %w", err)
		}
		cfg.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(settings, "sample_rate", "sampleRate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return cfg, fmt.Errorf("sample_rate: %w", err)
		}
		cfg.SampleRate = val
	}
	if raw, ok := lookupSetting(settings, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("insecure: %w", err)
		}
		cfg.Insecure = val
	}
	return cfg, nil
}
