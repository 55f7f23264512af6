package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/eliseohh/leakcheckbot/internal/config"
)

func preserveGlobals(t *testing.T) func() {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	return func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	}
}

func enabledCfg(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupDisabledIsNoOp(t *testing.T) {
	restore := preserveGlobals(t)
	defer restore()

	prevTP := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown is nil")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Error("disabled Setup replaced the tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown: %v", err)
	}
}

func TestSetupInstallsProviderAndPropagator(t *testing.T) {
	restore := preserveGlobals(t)
	defer restore()

	shutdown, err := Setup(context.Background(), enabledCfg("bot-test"), "v1.2.3")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatal("tracer provider not installed")
	}

	prop := otel.GetTextMapPropagator()
	carrier := propagation.MapCarrier{}
	ctx, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()
	prop.Inject(ctx, carrier)
	if len(carrier) == 0 {
		t.Error("propagator injected nothing")
	}
}

func TestSetupExporterErrorLeavesGlobalsIntact(t *testing.T) {
	restore := preserveGlobals(t)
	defer restore()

	orig := newOTLPExporterFn
	defer func() { newOTLPExporterFn = orig }()
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("boom-exporter")
	}

	prevTP := otel.GetTracerProvider()
	if _, err := Setup(context.Background(), enabledCfg("svc"), "v0"); err == nil {
		t.Fatal("expected error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Error("tracer provider changed on failure")
	}
}

func TestSetupResourceErrorLeavesGlobalsIntact(t *testing.T) {
	restore := preserveGlobals(t)
	defer restore()

	orig := newServiceResourceFn
	defer func() { newServiceResourceFn = orig }()
	newServiceResourceFn = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return nil, errors.New("boom-resource")
	}

	prevTP := otel.GetTracerProvider()
	if _, err := Setup(context.Background(), enabledCfg("svc"), "v0"); err == nil {
		t.Fatal("expected error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Error("tracer provider changed on failure")
	}
}

func TestShutdownIsCallable(t *testing.T) {
	restore := preserveGlobals(t)
	defer restore()

	shutdown, err := Setup(context.Background(), enabledCfg("svc-shutdown"), "v1")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
