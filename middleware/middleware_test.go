package middleware

import (
	"context"

	"github.com/vyrodovalexey/servicekit"
)

// echo returns its request unchanged; the base service for most tests.
func echo() servicekit.Service[string, string] {
	return servicekit.ServiceFunc[string, string](func(_ context.Context, req string) (string, error) {
		return req, nil
	})
}

// failWith always fails with the given error.
func failWith(err error) servicekit.Service[string, string] {
	return servicekit.ServiceFunc[string, string](func(context.Context, string) (string, error) {
		return "", err
	})
}
