package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rifa/config"
	"rifa/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const exportInterval = 30 * time.Second

// MetricsProvider manages OpenTelemetry metrics for the rifa service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	drawsStartedCounter          metric.Int64Counter
	drawsResolvedCounter         metric.Int64Counter
	drawsExhaustedCounter        metric.Int64Counter
	drawsInFlightGauge           metric.Int64UpDownCounter
	drawDurationHist             metric.Float64Histogram
	raffleEventChangesCounter    metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	databaseQueriesCounter       metric.Int64Counter
	databaseQueryDurationHist    metric.Float64Histogram
	httpRequestsCounter          metric.Int64Counter
	httpRequestDurationHist      metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.markInitialized()
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelExporterEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelExporterEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter type 'none')")
		mp.markInitialized()
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	return mp.InitializeWithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval)))
}

// InitializeWithReader builds the meter provider around an existing reader
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("rifa")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) markInitialized() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.initialized = true
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.drawsStartedCounter, err = mp.meter.Int64Counter(
		DrawsStartedTotal,
		metric.WithDescription("Total number of draws started"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws started counter: %w", err)
	}

	mp.drawsResolvedCounter, err = mp.meter.Int64Counter(
		DrawsResolvedTotal,
		metric.WithDescription("Total number of winners drawn"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws resolved counter: %w", err)
	}

	mp.drawsExhaustedCounter, err = mp.meter.Int64Counter(
		DrawsExhaustedTotal,
		metric.WithDescription("Total number of ranges fully drawn"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws exhausted counter: %w", err)
	}

	mp.drawsInFlightGauge, err = mp.meter.Int64UpDownCounter(
		DrawsInFlight,
		metric.WithDescription("Draws currently spinning or revealing"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws in flight gauge: %w", err)
	}

	mp.drawDurationHist, err = mp.meter.Float64Histogram(
		DrawDuration,
		metric.WithDescription("Time from draw start to winner in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 2, 4, 5, 6, 8, 10, 15),
	)
	if err != nil {
		return fmt.Errorf("failed to create draw duration histogram: %w", err)
	}

	mp.raffleEventChangesCounter, err = mp.meter.Int64Counter(
		RaffleEventChangesTotal,
		metric.WithDescription("Total number of raffle events created, updated or deleted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create raffle event changes counter: %w", err)
	}

	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	mp.databaseQueriesCounter, err = mp.meter.Int64Counter(
		DatabaseQueriesTotal,
		metric.WithDescription("Total number of database queries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create database queries counter: %w", err)
	}

	mp.databaseQueryDurationHist, err = mp.meter.Float64Histogram(
		DatabaseQueryDuration,
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	mp.httpRequestsCounter, err = mp.meter.Int64Counter(
		HTTPRequestsTotal,
		metric.WithDescription("Total number of HTTP API requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP requests counter: %w", err)
	}

	mp.httpRequestDurationHist, err = mp.meter.Float64Histogram(
		HTTPRequestDuration,
		metric.WithDescription("Duration of HTTP API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordDrawStarted records a draw leaving the idle state
func (mp *MetricsProvider) RecordDrawStarted(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}
	mp.drawsStartedCounter.Add(ctx, 1)
	mp.drawsInFlightGauge.Add(ctx, 1)
}

// RecordDrawResolved records a winner and the time the draw took
func (mp *MetricsProvider) RecordDrawResolved(ctx context.Context, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}
	mp.drawsResolvedCounter.Add(ctx, 1)
	mp.drawsInFlightGauge.Add(ctx, -1)
	mp.drawDurationHist.Record(ctx, duration.Seconds())
}

// RecordDrawExhausted records a range with no numbers left
func (mp *MetricsProvider) RecordDrawExhausted(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}
	mp.drawsExhaustedCounter.Add(ctx, 1)
}

// RecordRaffleEventChange records a stored raffle event being created, updated or deleted
func (mp *MetricsProvider) RecordRaffleEventChange(ctx context.Context, changeType string) {
	if !mp.isEnabled() {
		return
	}
	mp.raffleEventChangesCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(LabelType, changeType),
		),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordQuery records a database query with its duration
func (mp *MetricsProvider) RecordQuery(ctx context.Context, operation string, duration time.Duration, err error) {
	if !mp.isEnabled() {
		return
	}

	status := StatusOK
	if err != nil {
		status = StatusError
	}
	attrs := metric.WithAttributes(
		attribute.String(LabelOperation, operation),
		attribute.String(LabelStatus, status),
	)

	mp.databaseQueriesCounter.Add(ctx, 1, attrs)
	mp.databaseQueryDurationHist.Record(ctx, duration.Seconds(), attrs)
}

// RecordHTTPRequest records an API request by route template
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelMethod, method),
		attribute.String(LabelRoute, route),
		attribute.Int(LabelStatus, status),
	)

	mp.httpRequestsCounter.Add(ctx, 1, attrs)
	mp.httpRequestDurationHist.Record(ctx, duration.Seconds(), attrs)
}

// SubscribeToBus records draw and raffle event metrics from bus events
func (mp *MetricsProvider) SubscribeToBus(bus *events.Bus) {
	bus.Subscribe(events.EventTypeDrawStarted, func(ctx context.Context, _ events.Event) {
		mp.RecordDrawStarted(ctx)
	})
	bus.Subscribe(events.EventTypeDrawResolved, func(ctx context.Context, e events.Event) {
		if resolved, ok := e.(events.DrawResolvedEvent); ok {
			mp.RecordDrawResolved(ctx, resolved.Duration)
		}
	})
	bus.Subscribe(events.EventTypeDrawExhausted, func(ctx context.Context, _ events.Event) {
		mp.RecordDrawExhausted(ctx)
	})
	bus.Subscribe(events.EventTypeRaffleEventSaved, func(ctx context.Context, e events.Event) {
		changeType := ChangeTypeUpdated
		if saved, ok := e.(events.RaffleEventSavedEvent); ok && saved.Created {
			changeType = ChangeTypeCreated
		}
		mp.RecordRaffleEventChange(ctx, changeType)
	})
	bus.Subscribe(events.EventTypeRaffleEventDeleted, func(ctx context.Context, _ events.Event) {
		mp.RecordRaffleEventChange(ctx, ChangeTypeDeleted)
	})
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
