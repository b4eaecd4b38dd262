package servicekit

// Layer wraps an inner value, usually a Service, to produce a new service of
// type S layering additional behavior around it. Wrap is pure construction:
// it must have no side effects beyond allocation, and the returned service
// performs the actual work when invoked.
type Layer[In, S any] interface {
	Wrap(inner In) S
}

// LayerFunc adapts a plain function to the Layer interface.
type LayerFunc[In, S any] func(inner In) S

// Wrap implements Layer by calling f.
func (f LayerFunc[In, S]) Wrap(inner In) S {
	return f(inner)
}
