package servicekit

// BoxLayer erases the concrete type of a Layer, allowing both the layer
// itself and the service it produces to be dynamic while keeping one
// consistent static type. A BoxLayer produces BoxService values, erasing the
// type of whatever service the wrapped layer constructs.
//
// BoxLayer is useful for selecting between differently configured pipelines
// at runtime. For example, a timeout layer can be included only when a flag
// is set:
//
//	var layer servicekit.ServiceLayer[Req, Resp]
//	if timeoutEnabled {
//		layer = middleware.BoxTimeout[Req, Resp](30 * time.Second)
//	} else {
//		layer = middleware.BoxRequestID[Req, Resp]()
//	}
//
// Both branches yield the same static type, so the result can flow to a
// single call site. The zero BoxLayer is not usable; construct values with
// NewBoxLayer or BoxLayerFunc.
//
// A BoxLayer holds a shared handle to an immutable adapter. Copying a
// BoxLayer (or calling Clone) shares that adapter; the copy is O(1) and the
// adapter lives as long as any copy is held.
type BoxLayer[In, Req, Resp any] struct {
	boxed Layer[In, *BoxService[Req, Resp]]
}

// ServiceLayer is the common case of a boxed layer whose input and produced
// service share the same request and response types. Chain and the config
// builder operate on this shape.
type ServiceLayer[Req, Resp any] = BoxLayer[Service[Req, Resp], Req, Resp]

// NewBoxLayer erases the concrete type of inner. The inner layer is moved
// into the returned BoxLayer: callers must not retain or use it afterwards.
//
// The inner layer, and every value it captures, must be safe for concurrent
// use, because Wrap may be called concurrently on copies of the returned
// BoxLayer. The services it produces must likewise be safe for concurrent
// use and match the declared request and response types.
//
// Construction is infallible and performs a single allocation for the shared
// adapter; any failure in the underlying layer surfaces only when the
// produced service is invoked.
func NewBoxLayer[In, Req, Resp any, S Service[Req, Resp]](inner Layer[In, S]) BoxLayer[In, Req, Resp] {
	adapter := LayerFunc[In, *BoxService[Req, Resp]](func(in In) *BoxService[Req, Resp] {
		return NewBoxService[Req, Resp](inner.Wrap(in))
	})
	return BoxLayer[In, Req, Resp]{boxed: adapter}
}

// BoxLayerFunc is a convenience for boxing a wrap function directly. The
// produced service type is inferred from the function signature:
//
//	layer := servicekit.BoxLayerFunc[servicekit.Service[Req, Resp], Req, Resp](
//		func(inner servicekit.Service[Req, Resp]) *middleware.TimeoutService[Req, Resp] {
//			return middleware.NewTimeoutLayer[Req, Resp](time.Second).Wrap(inner)
//		})
func BoxLayerFunc[In, Req, Resp any, S Service[Req, Resp]](wrap func(inner In) S) BoxLayer[In, Req, Resp] {
	return NewBoxLayer[In, Req, Resp, S](LayerFunc[In, S](wrap))
}

// Wrap implements Layer. It delegates to the erased layer's Wrap and boxes
// the result. Each call constructs a fresh, independent BoxService; nothing
// is cached between calls.
func (l BoxLayer[In, Req, Resp]) Wrap(inner In) *BoxService[Req, Resp] {
	return l.boxed.Wrap(inner)
}

// Clone returns a BoxLayer sharing the same underlying adapter.
func (l BoxLayer[In, Req, Resp]) Clone() BoxLayer[In, Req, Resp] {
	return l
}

// String returns an opaque representation. The concrete erased type is
// intentionally not observable.
func (l BoxLayer[In, Req, Resp]) String() string {
	return "BoxLayer"
}
