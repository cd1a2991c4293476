package observability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Errors
var (
	ErrUnknownExporter = errors.New("unknown trace exporter type")
	ErrMetricsDisabled = errors.New("metrics are not enabled")
)

// Provider owns the tracer and meter providers handed to the registry.
type Provider struct {
	config         Config
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	reader         *sdkmetric.ManualReader
	shutdownFuncs  []func(context.Context) error
}

// New creates a new observability provider. Disabled signals use no-op
// providers so callers never need to nil-check.
func New(opts ...Option) (*Provider, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Provider{
		config:         cfg,
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)

	if cfg.Tracing.Enabled {
		if err := p.setupTracing(res); err != nil {
			return nil, err
		}
	}
	if cfg.Metrics.Enabled {
		p.setupMetrics(res)
	}

	return p, nil
}

func (p *Provider) setupTracing(res *resource.Resource) error {
	var spanProcessor sdktrace.SpanProcessor

	switch p.config.Tracing.Exporter {
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(p.config.Tracing.Endpoint),
		}
		if p.config.Tracing.Insecure {
			opts = append(opts, otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(context.Background(), opts...)
		if err != nil {
			return err
		}
		spanProcessor = sdktrace.NewBatchSpanProcessor(exp,
			sdktrace.WithBatchTimeout(p.config.Tracing.BatchTimeout),
		)

	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(p.config.Tracing.Writer))
		if err != nil {
			return err
		}
		// CLI invocations are short; export each span as it ends.
		spanProcessor = sdktrace.NewSimpleSpanProcessor(exp)

	case ExporterNoop:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownExporter, p.config.Tracing.Exporter)
	}

	var sampler sdktrace.Sampler
	switch rate := p.config.Tracing.SampleRate; {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(spanProcessor),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.tracerProvider = tp
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)
	return nil
}

func (p *Provider) setupMetrics(res *resource.Resource) {
	p.reader = sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(p.reader),
		sdkmetric.WithResource(res),
	)
	p.meterProvider = mp
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)
}

// TracerProvider returns the tracer provider.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tracerProvider
}

// MeterProvider returns the meter provider.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// CollectMetrics gathers the current value of every instrument.
func (p *Provider) CollectMetrics(ctx context.Context) (*metricdata.ResourceMetrics, error) {
	if p.reader == nil {
		return nil, ErrMetricsDisabled
	}

	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

// WriteMetrics writes collected metrics to w as indented JSON.
func (p *Provider) WriteMetrics(ctx context.Context, w io.Writer) error {
	rm, err := p.CollectMetrics(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rm.ScopeMetrics)
}

// Shutdown flushes and stops every configured signal.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewStdoutProvider creates a provider that writes spans to w and collects
// metrics on demand.
func NewStdoutProvider(serviceName string, w io.Writer) (*Provider, error) {
	return New(
		WithServiceName(serviceName),
		WithStdoutTracing(w),
		WithMetrics(),
	)
}

// NewOTLPProvider creates a provider exporting spans over OTLP/gRPC.
func NewOTLPProvider(serviceName, endpoint string) (*Provider, error) {
	return New(
		WithServiceName(serviceName),
		WithTracing(ExporterOTLP, endpoint),
		WithTracingInsecure(),
		WithMetrics(),
	)
}
