package servicekit

// Chain is an ordered collection of boxed layers sharing a common service
// type. The heterogeneity of the underlying layers is hidden by BoxLayer, so
// a chain can mix arbitrarily configured middleware.
//
// Chain values are immutable; Append returns a new chain. The zero Chain is
// empty and usable.
type Chain[Req, Resp any] struct {
	layers []ServiceLayer[Req, Resp]
}

// NewChain builds a chain from the given layers. The first layer is the
// outermost: requests pass through it first.
func NewChain[Req, Resp any](layers ...ServiceLayer[Req, Resp]) Chain[Req, Resp] {
	return Chain[Req, Resp]{layers: layers}
}

// Append returns a new chain with the given layers added after the existing
// ones (closer to the wrapped service).
func (c Chain[Req, Resp]) Append(layers ...ServiceLayer[Req, Resp]) Chain[Req, Resp] {
	combined := make([]ServiceLayer[Req, Resp], 0, len(c.layers)+len(layers))
	combined = append(combined, c.layers...)
	combined = append(combined, layers...)
	return Chain[Req, Resp]{layers: combined}
}

// Len returns the number of layers in the chain.
func (c Chain[Req, Resp]) Len() int {
	return len(c.layers)
}

// Then wraps svc with every layer in the chain and returns the resulting
// boxed service. Layers are applied innermost-last, so the first layer in
// the chain observes each request before any other.
func (c Chain[Req, Resp]) Then(svc Service[Req, Resp]) *BoxService[Req, Resp] {
	boxed := NewBoxService[Req, Resp](svc)
	for i := len(c.layers) - 1; i >= 0; i-- {
		boxed = c.layers[i].Wrap(boxed)
	}
	return boxed
}
