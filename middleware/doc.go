// Package middleware provides concrete servicekit layers: timeouts, retries,
// rate limiting, circuit breaking, panic recovery, request IDs, concurrency
// limits, logging, metrics, and tracing.
//
// Each layer is a distinct concrete type producing a distinct concrete
// service type; the Box* helpers erase them into uniform
// servicekit.ServiceLayer values for runtime composition.
package middleware
