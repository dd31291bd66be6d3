package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for registry operations.
const (
	AttrService      = "registry.service"
	AttrLinkFrom     = "registry.link.from"
	AttrLinkTo       = "registry.link.to"
	AttrDomain       = "registry.domain"
	AttrDomainCount  = "registry.domain.count"
	AttrServiceCount = "registry.service.count"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanAddService       = "registry.add_service"
	SpanLinkServices     = "registry.link_services"
	SpanConnectedDomains = "registry.connected_domains"
	SpanLinks            = "registry.links"
	SpanDomainOwners     = "registry.domain_owners"
	SpanApplyManifest    = "registry.apply_manifest"
)

// Start opens an internal span with the given attributes.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span as failed. nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
}
