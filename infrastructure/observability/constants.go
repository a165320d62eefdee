package observability

// Metric name prefixes
const (
	MetricPrefix = "rifa"
)

// Metric names
const (
	// Draw metrics
	DrawsStartedTotal   = MetricPrefix + ".draws.started_total"
	DrawsResolvedTotal  = MetricPrefix + ".draws.resolved_total"
	DrawsExhaustedTotal = MetricPrefix + ".draws.exhausted_total"
	DrawsInFlight       = MetricPrefix + ".draws.in_flight"
	DrawDuration        = MetricPrefix + ".draws.duration"

	// Raffle event metrics
	RaffleEventChangesTotal = MetricPrefix + ".events.changes_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelMethod    = "method"
	LabelRoute     = "route"
)

// Raffle event change types
const (
	ChangeTypeCreated = "created"
	ChangeTypeUpdated = "updated"
	ChangeTypeDeleted = "deleted"
)

// Query statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)
