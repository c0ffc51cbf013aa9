// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through a small registry of hook interfaces whose
// defaults do nothing. The binary registers real implementations at
// startup, so the engine packages never import a metrics backend.
//
// Register hooks once before running any pipeline:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ...
//	}
//
// Libraries call them around their work:
//
//	observability.Pipeline().OnLayoutStart(ctx, len(tree.People))
//	// ... resolve, place, simulate ...
//	observability.Pipeline().OnLayoutComplete(ctx, ticks, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the headless layout pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, people, relationships int, duration time.Duration, err error)

	// Layout events. ticks is the number of simulation steps to rest.
	OnLayoutStart(ctx context.Context, people int)
	OnLayoutComplete(ctx context.Context, ticks int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events about the force simulation.
type SimulationHooks interface {
	// OnSettled records a simulation that came to rest or hit its tick limit.
	OnSettled(ctx context.Context, nodes, links, ticks int, alpha float64)

	// OnSkipped records input the engine ignored, such as links with a
	// dangling endpoint.
	OnSkipped(ctx context.Context, what string, count int)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from an interactive viewer.
type InteractionHooks interface {
	// OnToggle records a relationship type being shown or hidden.
	OnToggle(ctx context.Context, relType string, visible bool)

	// OnProximityDrop records a drop onto a candidate. accepted is false
	// when the pair was already related.
	OnProximityDrop(ctx context.Context, accepted bool)

	// OnConnect records a relationship created from a drop; kind is the
	// chosen connection, err non-nil when the tree refused it.
	OnConnect(ctx context.Context, kind string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSettled(context.Context, int, int, int, float64) {}
func (NoopSimulationHooks) OnSkipped(context.Context, string, int)            {}

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnToggle(context.Context, string, bool)   {}
func (NoopInteractionHooks) OnProximityDrop(context.Context, bool)    {}
func (NoopInteractionHooks) OnConnect(context.Context, string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks   PipelineHooks    = NoopPipelineHooks{}
	simulationHooks SimulationHooks  = NoopSimulationHooks{}
	interactHooks   InteractionHooks = NoopInteractionHooks{}
	cacheHooks      CacheHooks       = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetInteractionHooks registers custom interaction hooks.
func SetInteractionHooks(h InteractionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		interactHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Interaction returns the registered interaction hooks.
func Interaction() InteractionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return interactHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	simulationHooks = NoopSimulationHooks{}
	interactHooks = NoopInteractionHooks{}
	cacheHooks = NoopCacheHooks{}
}
