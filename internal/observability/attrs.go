package observability

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys shared by the services, so a trace backend can filter
// every operation of one period with the same query.
const (
	AttrYear          = attribute.Key("period.year")
	AttrMonth         = attribute.Key("period.month")
	AttrRecordID      = attribute.Key("record.id")
	AttrRecoveryScope = attribute.Key("recovery.scope")
)

// PeriodAttrs tags a span with a year and, when set, a month variant.
func PeriodAttrs(year, month string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{AttrYear.String(year)}
	if month != "" {
		attrs = append(attrs, AttrMonth.String(month))
	}
	return attrs
}
