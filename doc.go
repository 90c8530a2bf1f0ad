// Package backend provides the driftnote featured-feed API server.
//
// This package contains the main application entry points. The actual
// functionality is organized into subpackages:
//
//   - internal/handlers: HTTP request handlers for the discovery endpoints
//   - internal/feed: featured feed assembly (gating, candidates, pagination)
//   - internal/featured: TTL ranking cache, reorder, and cursor pagination
//   - internal/ranking: ranking source backed by Redis sorted sets
//   - internal/query: storage filter fragments and viewer exclusion context
//   - internal/policy: instance settings and feature gating
//   - internal/models: data models and database schemas
//   - internal/database: database connection and migrations
//   - internal/auth: optional viewer resolution from bearer tokens
//   - internal/middleware: HTTP middleware (request IDs, logging, metrics)
//   - internal/metrics: Prometheus collectors
//   - internal/kernel: dependency wiring and lifecycle
package backend
