package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/logging"
)

const (
	DefaultTarget            = "http://127.0.0.1:8000"
	DefaultWorkers           = 10
	DefaultRequestsPerWorker = 100
)

type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

type Config struct {
	TargetURL         string        `mapstructure:"target"`
	Workers           int           `mapstructure:"workers"`
	RequestsPerWorker int           `mapstructure:"requests"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Variants          []Variant     `mapstructure:"variants"`
	VariantFilter     []string      `mapstructure:"-"`
	Format            OutputFormat  `mapstructure:"format"`
	Verbose           bool          `mapstructure:"verbose"`
	Debug             bool          `mapstructure:"debug"`
	HistoryFile       string        `mapstructure:"history_file"`
	ResultsDB         string        `mapstructure:"results_db"`
	Thresholds        []string      `mapstructure:"thresholds"`
	Tracing           TracingConfig `mapstructure:"tracing"`
	ConfigFile        string        `mapstructure:"-"`
}

// Variant names one client implementation to benchmark. Client is the
// registered adapter name; Kind picks how its workers are scheduled.
type Variant struct {
	Name    string        `mapstructure:"name"`
	Kind    string        `mapstructure:"kind"`
	Client  string        `mapstructure:"client"`
	Timeout time.Duration `mapstructure:"timeout"` // overrides Config.Timeout when set
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// DefaultVariants is the set benchmarked when no variants are configured.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "nethttp", Kind: string(httpclient.KindBlocking), Client: "nethttp"},
		{Name: "nethttp-async", Kind: string(httpclient.KindSuspending), Client: "nethttp-async"},
		{Name: "rawtcp", Kind: string(httpclient.KindBlocking), Client: "rawtcp"},
	}
}

// SelectedVariants returns the configured variants narrowed down to the
// names in VariantFilter, keeping configuration order.
func (c Config) SelectedVariants() []Variant {
	if len(c.VariantFilter) == 0 {
		return append([]Variant(nil), c.Variants...)
	}
	wanted := make(map[string]bool, len(c.VariantFilter))
	for _, name := range c.VariantFilter {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}
	var out []Variant
	for _, v := range c.Variants {
		if wanted[strings.ToLower(v.Name)] {
			out = append(out, v)
		}
	}
	return out
}

// EffectiveTimeout is the per-request timeout the variant's adapter uses.
func (c Config) EffectiveTimeout(v Variant) time.Duration {
	if v.Timeout > 0 {
		return v.Timeout
	}
	return c.Timeout
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	issues = append(issues, validateTarget(c.TargetURL)...)

	if c.Workers > 500 {
		logging.Warnf("High worker count configured (%d). Ensure you have authorization to load the target system.", c.Workers)
	}
	if c.Workers < 1 {
		issues = append(issues, "workers must be >= 1")
	}
	if c.RequestsPerWorker < 1 {
		issues = append(issues, "requests must be >= 1")
	}
	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}

	switch c.Format {
	case "", FormatText, FormatTable, FormatJSON, FormatYAML:
	default:
		issues = append(issues, fmt.Sprintf("format %q is not supported (text, table, json, yaml)", c.Format))
	}

	issues = append(issues, validateVariants(c.Variants, c.TargetURL)...)

	if len(c.VariantFilter) > 0 {
		known := make(map[string]bool, len(c.Variants))
		for _, v := range c.Variants {
			known[strings.ToLower(v.Name)] = true
		}
		for _, name := range c.VariantFilter {
			if !known[strings.ToLower(strings.TrimSpace(name))] {
				issues = append(issues, fmt.Sprintf("variant %q is not configured", name))
			}
		}
	}

	issues = append(issues, validateTracing(c.Tracing)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTarget(target string) []string {
	if strings.TrimSpace(target) == "" {
		return []string{"target is required (use --help for usage information)"}
	}
	u, err := url.Parse(target)
	if err != nil {
		return []string{fmt.Sprintf("target: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return []string{fmt.Sprintf("target scheme must be http or https, got %q", u.Scheme)}
	}
	if u.Host == "" {
		return []string{"target host is required"}
	}
	return nil
}

func validateVariants(variants []Variant, target string) []string {
	if len(variants) == 0 {
		return []string{"at least one variant is required"}
	}
	var issues []string
	seen := map[string]int{}
	for idx, v := range variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			issues = append(issues, fmt.Sprintf("variants[%d]: name is required", idx))
		} else {
			key := strings.ToLower(name)
			if prev, ok := seen[key]; ok {
				issues = append(issues, fmt.Sprintf("variants[%d]: duplicate name also defined at index %d", idx, prev))
			} else {
				seen[key] = idx
			}
		}
		if _, err := httpclient.ParseKind(v.Kind); err != nil {
			issues = append(issues, fmt.Sprintf("variants[%d]: %v", idx, err))
		}
		if _, err := httpclient.Lookup(v.Client); err != nil {
			issues = append(issues, fmt.Sprintf("variants[%d]: %v", idx, err))
		}
		if v.Timeout < 0 {
			issues = append(issues, fmt.Sprintf("variants[%d]: timeout must be >= 0", idx))
		}
		if v.Client == "rawtcp" || v.Client == "h2c" {
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(target)), "https://") {
				issues = append(issues, fmt.Sprintf("variants[%d]: client %s requires a plain http target", idx, v.Client))
			}
		}
	}
	return issues
}

func validateTracing(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: unsupported protocol %q (grpc, http)", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, "tracing: sample_rate must be between 0 and 1")
	}
	return issues
}
