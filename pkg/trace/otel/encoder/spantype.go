// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package encoder

import "strings"

// Span types understood by the Datadog backend.
const (
	SpanTypeWeb           = "web"
	SpanTypeHTTP          = "http"
	SpanTypeRedis         = "redis"
	SpanTypeMemcached     = "memcached"
	SpanTypeMongoDB       = "mongodb"
	SpanTypeSQL           = "sql"
	SpanTypeElasticsearch = "elasticsearch"
	SpanTypeCassandra     = "cassandra"
	SpanTypeRPC           = "rpc"
	SpanTypeQueue         = "queue"
	SpanTypeGraphQL       = "graphql"
	// SpanTypeCustom is given to spans whose instrumentation scope is unknown.
	SpanTypeCustom = "custom"
)

// SpanTypeRule maps instrumentation scopes whose name contains Token to Type.
type SpanTypeRule struct {
	Token string
	Type  string
}

// defaultSpanTypeRules is checked in order. Web framework integrations are
// listed before the generic "http" token they usually contain.
var defaultSpanTypeRules = []SpanTypeRule{
	{Token: "otelgin", Type: SpanTypeWeb},
	{Token: "otelecho", Type: SpanTypeWeb},
	{Token: "otelmux", Type: SpanTypeWeb},
	{Token: "otelfiber", Type: SpanTypeWeb},
	{Token: "otelrestful", Type: SpanTypeWeb},
	{Token: "redis", Type: SpanTypeRedis},
	{Token: "memcache", Type: SpanTypeMemcached},
	{Token: "mongo", Type: SpanTypeMongoDB},
	{Token: "elasticsearch", Type: SpanTypeElasticsearch},
	{Token: "cassandra", Type: SpanTypeCassandra},
	{Token: "gocql", Type: SpanTypeCassandra},
	{Token: "mysql", Type: SpanTypeSQL},
	{Token: "postgres", Type: SpanTypeSQL},
	{Token: "pgx", Type: SpanTypeSQL},
	{Token: "sql", Type: SpanTypeSQL},
	{Token: "grpc", Type: SpanTypeRPC},
	{Token: "kafka", Type: SpanTypeQueue},
	{Token: "sarama", Type: SpanTypeQueue},
	{Token: "graphql", Type: SpanTypeGraphQL},
	{Token: "http", Type: SpanTypeHTTP},
}

// SpanTypeRegistry resolves the span type of an instrumentation scope by
// case-insensitive substring match. It is immutable once built and safe for
// concurrent use.
type SpanTypeRegistry struct {
	rules []SpanTypeRule
}

// NewSpanTypeRegistry returns a registry holding the default rules preceded
// by rules. Earlier rules win.
func NewSpanTypeRegistry(rules ...SpanTypeRule) *SpanTypeRegistry {
	return (&SpanTypeRegistry{rules: defaultSpanTypeRules}).With(rules...)
}

// With returns a copy of r in which rules take precedence over the existing
// ones. Rules with an empty token or type are ignored.
func (r *SpanTypeRegistry) With(rules ...SpanTypeRule) *SpanTypeRegistry {
	out := make([]SpanTypeRule, 0, len(rules)+len(r.rules))
	for _, rule := range rules {
		if rule.Token == "" || rule.Type == "" {
			continue
		}
		out = append(out, SpanTypeRule{Token: strings.ToLower(rule.Token), Type: rule.Type})
	}
	out = append(out, r.rules...)
	return &SpanTypeRegistry{rules: out}
}

// Lookup returns the span type for the instrumentation scope named scope.
func (r *SpanTypeRegistry) Lookup(scope string) string {
	if scope == "" {
		return SpanTypeCustom
	}
	scope = strings.ToLower(scope)
	for _, rule := range r.rules {
		if strings.Contains(scope, rule.Token) {
			return rule.Type
		}
	}
	return SpanTypeCustom
}

// Rules returns the rules of r in lookup order.
func (r *SpanTypeRegistry) Rules() []SpanTypeRule {
	return append([]SpanTypeRule(nil), r.rules...)
}
