package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "opregistry" {
		t.Errorf("ServiceName = %s, want opregistry", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing should be disabled by default")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled by default")
	}
	if cfg.Tracing.Exporter != ExporterNoop {
		t.Errorf("Tracing.Exporter = %s, want noop", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("Tracing.SampleRate = %v, want 1.0", cfg.Tracing.SampleRate)
	}
}

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithServiceName("svc"),
		WithServiceVersion("1.2.3"),
		WithEnvironment("staging"),
		WithStdoutTracing(&buf),
		WithSampleRate(0.5),
		WithMetrics(),
	} {
		opt(&cfg)
	}

	if cfg.ServiceName != "svc" || cfg.ServiceVersion != "1.2.3" || cfg.Environment != "staging" {
		t.Errorf("service = %s/%s/%s", cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != ExporterStdout || cfg.Tracing.Writer != &buf {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("SampleRate = %v, want 0.5", cfg.Tracing.SampleRate)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics should be enabled")
	}

	WithTracing(ExporterOTLP, "collector:4317")(&cfg)
	WithTracingInsecure()(&cfg)
	if cfg.Tracing.Exporter != ExporterOTLP || cfg.Tracing.Endpoint != "collector:4317" || !cfg.Tracing.Insecure {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
}

func TestParseExporterType(t *testing.T) {
	tests := []struct {
		in     string
		want   ExporterType
		wantOK bool
	}{
		{in: "otlp", want: ExporterOTLP, wantOK: true},
		{in: "stdout", want: ExporterStdout, wantOK: true},
		{in: "noop", want: ExporterNoop, wantOK: true},
		{in: "jaeger", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseExporterType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseExporterType(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNew_Disabled(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracing produced a valid span")
	}
	span.End()

	if _, err := p.CollectMetrics(context.Background()); !errors.Is(err, ErrMetricsDisabled) {
		t.Errorf("CollectMetrics() error = %v, want ErrMetricsDisabled", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_UnknownExporter(t *testing.T) {
	_, err := New(WithTracing(ExporterType("zipkin"), ""))
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

func TestStdoutProvider_WritesSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewStdoutProvider("opregistry-test", &buf)
	if err != nil {
		t.Fatalf("NewStdoutProvider() error = %v", err)
	}

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "opregistry.resolve")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "opregistry.resolve") {
		t.Errorf("span output missing span name: %s", out)
	}
	if !strings.Contains(out, "opregistry-test") {
		t.Errorf("span output missing service name: %s", out)
	}
}

func TestNew_ZeroSampleRateDropsSpans(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(WithStdoutTracing(&buf), WithSampleRate(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, span := p.TracerProvider().Tracer("test").Start(context.Background(), "dropped")
	span.End()
	_ = p.Shutdown(context.Background())

	if buf.Len() != 0 {
		t.Errorf("unsampled span was exported: %s", buf.String())
	}
}

func TestProvider_CollectMetrics(t *testing.T) {
	p, err := New(WithMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	counter, err := p.MeterProvider().Meter("test").Int64Counter("opregistry.resolutions")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 2)
	counter.Add(context.Background(), 3)

	rm, err := p.CollectMetrics(context.Background())
	if err != nil {
		t.Fatalf("CollectMetrics() error = %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "opregistry.resolutions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric data is %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 5 {
		t.Errorf("counter total = %d, want 5", total)
	}

	var buf bytes.Buffer
	if err := p.WriteMetrics(context.Background(), &buf); err != nil {
		t.Fatalf("WriteMetrics() error = %v", err)
	}
	if !strings.Contains(buf.String(), "opregistry.resolutions") {
		t.Errorf("WriteMetrics() output missing counter: %s", buf.String())
	}
}

func TestNewOTLPProvider(t *testing.T) {
	// The gRPC exporter connects lazily, so construction works without a collector.
	p, err := NewOTLPProvider("opregistry-test", "localhost:4317")
	if err != nil {
		t.Fatalf("NewOTLPProvider() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.Shutdown(ctx)
}
