// Package servicekit provides composable request-processing middleware.
//
// The core abstractions are Service, an asynchronous request to response
// transformer, and Layer, which wraps an inner Service to produce a new one
// with additional behavior (timeouts, retries, rate limiting, logging, ...).
//
// Because every concrete Layer produces its own concrete Service type,
// differently configured pipelines normally have distinct static types and
// cannot be selected between at runtime. BoxService and BoxLayer solve this
// by erasing concrete types behind uniform handles: any Layer whose produced
// Service matches the declared request/response types can be boxed into a
// single BoxLayer type, stored in one variable or slice, and applied later.
//
// Concrete middleware implementations live in the middleware subpackage;
// Chain composes boxed layers into pipelines, and the config subpackage
// builds chains from YAML at runtime.
package servicekit
