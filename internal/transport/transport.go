// Package transport defines the interface for pluggable request transports.
//
// Each transport (HTTP, gRPC) accepts SpeechRequests in its own wire format
// and hands them to the dispatcher through a Handler. The dispatcher doesn't
// care how requests arrive; it only works with the Transport contract.
package transport

import (
	"context"

	"github.com/nadzzz/incognito/internal/message"
)

// Handler processes an incoming speech request and returns its result.
// The dispatcher provides this handler to each transport.
type Handler func(ctx context.Context, req *message.SpeechRequest) (*message.SpeechResult, error)

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http").
	Name() string

	// Listen starts accepting requests and passes them to the handler.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
