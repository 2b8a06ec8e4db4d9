// Package handlers implements the HTTP façade (C6): gin handlers
// built once per route with their dependencies closed over, the way
// the teacher's MakeXHandler(container) functions do.
package handlers

import (
	"wallet-core/internal/engine"
	"wallet-core/internal/events"
	"wallet-core/internal/reporter"
	"wallet-core/internal/store"
)

// Dependencies is the handler layer's view of the application
// container — only what routes need, to avoid a circular import
// between handlers and the bootstrap package.
type Dependencies interface {
	GetEngine() *engine.Engine
	GetReporter() *reporter.Reporter
	GetEventPublisher() events.Publisher
	GetStore() store.Store
}
