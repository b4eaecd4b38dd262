package servicekit

import "context"

// Service is the core unit of request processing: it asynchronously maps a
// request to a response or an error. Implementations must be safe for
// concurrent use.
type Service[Req, Resp any] interface {
	// Ready reports whether the service can accept a request. It blocks
	// until the service is ready, the context is done, or the service
	// determines it can never become ready, in which case it returns the
	// terminal error.
	Ready(ctx context.Context) error

	// Invoke processes a single request. The call blocks until a response
	// is produced, an error occurs, or the context is done.
	Invoke(ctx context.Context, req Req) (Resp, error)
}

// ServiceFunc adapts a plain function to the Service interface. A
// ServiceFunc is always ready.
type ServiceFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Ready implements Service.
func (f ServiceFunc[Req, Resp]) Ready(ctx context.Context) error {
	return ctx.Err()
}

// Invoke implements Service by calling f.
func (f ServiceFunc[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}
