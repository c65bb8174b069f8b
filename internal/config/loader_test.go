package config

import (
	"testing"
	"time"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		input   interface{}
		want    int
		wantErr bool
	}{
		{10, 10, false},
		{int64(20), 20, false},
		{float64(30), 30, false},
		{" 40 ", 40, false},
		{"", 0, false},
		{"abc", 0, true},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, err := asInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("asInt(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("asInt(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestAsDuration(t *testing.T) {
	tests := []struct {
		input interface{}
		want  time.Duration
	}{
		{time.Second, time.Second},
		{"250ms", 250 * time.Millisecond},
		{10, 10 * time.Second}, // int treated as seconds
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := asDuration(tt.input)
		if err != nil {
			t.Errorf("asDuration(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asDuration(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseThresholds(t *testing.T) {
	got, err := parseThresholds("latency:p99 < 5,, latency:max < 9 ")
	if err != nil {
		t.Fatalf("parseThresholds() error = %v", err)
	}
	if len(got) != 2 || got[0] != "latency:p99 < 5" || got[1] != "latency:max < 9" {
		t.Errorf("parseThresholds() = %q", got)
	}

	got, err = parseThresholds([]interface{}{"latency:mean < 1"})
	if err != nil || len(got) != 1 {
		t.Errorf("parseThresholds(list) = %q, %v", got, err)
	}
}

func TestBuildVariantDefaults(t *testing.T) {
	v, err := buildVariant(map[string]interface{}{"client": "NetHTTP-Async"})
	if err != nil {
		t.Fatalf("buildVariant() error = %v", err)
	}
	if v.Name != "nethttp-async" || v.Client != "nethttp-async" {
		t.Errorf("variant = %+v, want name and client nethttp-async", v)
	}
	if v.Kind != "suspending" {
		t.Errorf("Kind = %q, want adapter default suspending", v.Kind)
	}

	v, err = buildVariant(map[string]interface{}{"name": "rawtcp", "kind": "Suspending", "timeout": "500ms"})
	if err != nil {
		t.Fatalf("buildVariant() error = %v", err)
	}
	if v.Client != "rawtcp" || v.Kind != "suspending" || v.Timeout != 500*time.Millisecond {
		t.Errorf("variant = %+v", v)
	}
}

func TestParseVariantsRejectsNonList(t *testing.T) {
	if _, err := parseVariants("nethttp"); err == nil {
		t.Error("parseVariants(string) should fail")
	}
	if _, err := parseVariants([]interface{}{"nethttp"}); err == nil {
		t.Error("parseVariants([string]) should fail")
	}
}

func TestApplyConfigSettingsTracing(t *testing.T) {
	cfg := &Config{Tracing: TracingConfig{Protocol: "grpc", SampleRate: 1}}
	settings := map[string]interface{}{
		"tracing": map[string]interface{}{
			"endpoint":     "collector:4318",
			"protocol":     "HTTP",
			"service_name": "bench",
			"insecure":     "true",
		},
	}
	if err := applyConfigSettings(cfg, settings); err != nil {
		t.Fatalf("applyConfigSettings() error = %v", err)
	}
	want := TracingConfig{Endpoint: "collector:4318", Protocol: "http", ServiceName: "bench", SampleRate: 1, Insecure: true}
	if cfg.Tracing != want {
		t.Errorf("Tracing = %+v, want %+v", cfg.Tracing, want)
	}
}

func TestLookupSettingCaseInsensitive(t *testing.T) {
	settings := map[string]interface{}{"historyfile": "h.jsonl"}
	val, ok := lookupSetting(settings, "history_file", "historyFile")
	if !ok || val != "h.jsonl" {
		t.Errorf("lookupSetting() = %v, %v", val, ok)
	}
}
