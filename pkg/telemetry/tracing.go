package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const JournalDateKey contextKey = "journalDate"

// Supported values for the exporter argument of InitTracer.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// InitTracer installs the global tracer provider and W3C propagators.
// The returned func flushes pending spans and must be called on exit.
func InitTracer(serviceName, exporter, endpoint string) (func(context.Context) error, error) {
	ctx := context.Background()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if exporter == ExporterNone {
		return func(context.Context) error { return nil }, nil
	}

	spanExporter, err := newExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch exporter {
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	case ExporterOTLP, "":
		exp, err = otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure(), otlptracegrpc.WithEndpoint(endpoint))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s trace exporter: %w", exporter, err)
	}
	return exp, nil
}

// StartSpanFromSQSMessage continues the producer's trace for a received message.
// When the body carries a journal date it is put on the span and in ctx.
func StartSpanFromSQSMessage(ctx context.Context, msg types.Message) (context.Context, trace.Span) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, messageAttributes(msg.MessageAttributes))

	attrs := []attribute.KeyValue{attribute.String("messaging.system", "aws_sqs")}
	if msg.MessageId != nil {
		attrs = append(attrs, attribute.String("messaging.message_id", *msg.MessageId))
	}
	ctx, span := otel.Tracer("sqs-worker").Start(ctx, "process_message",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attrs...),
	)

	if date := journalDate(msg.Body); date != "" {
		span.SetAttributes(attribute.String("app.journal_date", date))
		ctx = context.WithValue(ctx, JournalDateKey, date)
	}
	return ctx, span
}

func journalDate(body *string) string {
	if body == nil {
		return ""
	}
	var payload struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal([]byte(*body), &payload); err != nil {
		return ""
	}
	return payload.Date
}

// GetJournalDateFromContext returns the journal date set by StartSpanFromSQSMessage.
func GetJournalDateFromContext(ctx context.Context) string {
	date, _ := ctx.Value(JournalDateKey).(string)
	return date
}

// InjectTraceContext returns message attributes carrying the current trace context.
func InjectTraceContext(ctx context.Context) map[string]types.MessageAttributeValue {
	attrs := messageAttributes{}
	otel.GetTextMapPropagator().Inject(ctx, attrs)
	return attrs
}

// messageAttributes adapts SQS message attributes to propagation.TextMapCarrier.
type messageAttributes map[string]types.MessageAttributeValue

func (m messageAttributes) Get(key string) string {
	if v, ok := m[key]; ok && v.StringValue != nil {
		return *v.StringValue
	}
	return ""
}

func (m messageAttributes) Set(key, value string) {
	m[key] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

func (m messageAttributes) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
