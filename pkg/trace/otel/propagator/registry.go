// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package propagator

import (
	"context"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

// Registry holds the injectors and extractors a process propagates context
// with.
type Registry interface {
	// Register appends injector and extractor to the registry. Either may be
	// nil.
	Register(injector, extractor propagation.TextMapPropagator)
}

// AutoConfigure adds the Datadog propagator to both lists of reg, after the
// entries already present.
func AutoConfigure(reg Registry) {
	p := New()
	reg.Register(p, p)
}

// CompositeRegistry is a Registry that also acts as a TextMapPropagator:
// Inject runs every injector and Extract chains every extractor, both in
// registration order. It is safe for concurrent use.
type CompositeRegistry struct {
	mu         sync.RWMutex
	injectors  []propagation.TextMapPropagator
	extractors []propagation.TextMapPropagator
}

var _ propagation.TextMapPropagator = (*CompositeRegistry)(nil)

// NewCompositeRegistry returns a registry using each of propagators both as
// injector and extractor.
func NewCompositeRegistry(propagators ...propagation.TextMapPropagator) *CompositeRegistry {
	r := &CompositeRegistry{}
	for _, p := range propagators {
		r.Register(p, p)
	}
	return r
}

// Register implements Registry. Propagators already present in a list are not
// added to it again, which makes AutoConfigure idempotent.
func (r *CompositeRegistry) Register(injector, extractor propagation.TextMapPropagator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if injector != nil && !contains(r.injectors, injector) {
		r.injectors = append(r.injectors, injector)
		log.Debugf("Registered %T as trace context injector", injector)
	}
	if extractor != nil && !contains(r.extractors, extractor) {
		r.extractors = append(r.extractors, extractor)
		log.Debugf("Registered %T as trace context extractor", extractor)
	}
}

// Injectors returns the registered injectors in order.
func (r *CompositeRegistry) Injectors() []propagation.TextMapPropagator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]propagation.TextMapPropagator(nil), r.injectors...)
}

// Extractors returns the registered extractors in order.
func (r *CompositeRegistry) Extractors() []propagation.TextMapPropagator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]propagation.TextMapPropagator(nil), r.extractors...)
}

// Inject runs every injector on carrier.
func (r *CompositeRegistry) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	for _, p := range r.Injectors() {
		p.Inject(ctx, carrier)
	}
}

// Extract chains every extractor, each one seeing the context returned by
// the previous.
func (r *CompositeRegistry) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	for _, p := range r.Extractors() {
		ctx = p.Extract(ctx, carrier)
	}
	return ctx
}

// Fields returns the union of the injectors' fields.
func (r *CompositeRegistry) Fields() []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, p := range r.Injectors() {
		for _, f := range p.Fields() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	return fields
}

// Install makes r the global OpenTelemetry propagator.
func (r *CompositeRegistry) Install() {
	otel.SetTextMapPropagator(r)
}

func contains(list []propagation.TextMapPropagator, p propagation.TextMapPropagator) bool {
	t := reflect.TypeOf(p)
	if !t.Comparable() {
		return false
	}
	for _, q := range list {
		if reflect.TypeOf(q) == t && q == p {
			return true
		}
	}
	return false
}
