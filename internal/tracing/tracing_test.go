package tracing

import (
	"context"
	"testing"
	"time"
)

func enabledConfig() Config {
	return Config{
		ServiceName:  "driftline-api",
		Enabled:      true,
		Environment:  "development",
		ExporterType: ExporterOTLPHTTP,
		OTLPEndpoint: "localhost:4318",
		SamplingRate: 1.0,
		InsecureMode: true,
	}
}

func shutdownProvider(t *testing.T, p *Provider) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(Config{ServiceName: "driftline-api", Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if provider.IsEnabled() {
		t.Error("expected disabled provider")
	}
	if tracer := provider.Tracer("feed"); tracer == nil {
		t.Error("expected a usable tracer from a disabled provider")
	}
	shutdownProvider(t, provider)
}

func TestNewProviderRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing service name", Config{Enabled: true, SamplingRate: 0.5}},
		{"negative sampling rate", Config{ServiceName: "driftline-api", Enabled: true, SamplingRate: -0.1}},
		{"sampling rate above one", Config{ServiceName: "driftline-api", Enabled: true, SamplingRate: 1.5}},
		{"unknown exporter", Config{ServiceName: "driftline-api", Enabled: true, SamplingRate: 0.5, ExporterType: "jaeger"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProvider(tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestNewProviderExporters(t *testing.T) {
	tests := []struct {
		name         string
		exporterType string
		endpoint     string
		samplingRate float64
	}{
		{"otlp http sampled", ExporterOTLPHTTP, "localhost:4318", 0.1},
		{"otlp grpc always", ExporterOTLPGRPC, "localhost:4317", 1.0},
		{"default exporter never", "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := enabledConfig()
			cfg.ExporterType = tt.exporterType
			cfg.OTLPEndpoint = tt.endpoint
			cfg.SamplingRate = tt.samplingRate

			provider, err := NewProvider(cfg)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if !provider.IsEnabled() {
				t.Error("expected enabled provider")
			}
			shutdownProvider(t, provider)
		})
	}
}

func TestProviderTracerCreatesSpans(t *testing.T) {
	provider, err := NewProvider(enabledConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer shutdownProvider(t, provider)

	_, span := provider.Tracer("feed").Start(context.Background(), "assemble")
	if !span.SpanContext().IsValid() {
		t.Error("expected a valid span context from an enabled provider")
	}
	span.End()
}

func TestShutdownWithoutProvider(t *testing.T) {
	var p Provider
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on inert provider error = %v", err)
	}
}
