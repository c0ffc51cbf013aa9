package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "family.json")
	p.OnLoadComplete(ctx, "family.json", 12, 14, time.Millisecond, nil)
	p.OnLayoutStart(ctx, 12)
	p.OnLayoutComplete(ctx, 300, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	s := NoopSimulationHooks{}
	s.OnSettled(ctx, 12, 14, 300, 0.0009)
	s.OnSkipped(ctx, "links", 2)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Reset() should restore NoopSimulationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	SetSimulationHooks(nil)
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("SetSimulationHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testSimulationHooks struct{ NoopSimulationHooks }
type testCacheHooks struct{ NoopCacheHooks }

type recordingInteraction struct {
	NoopInteractionHooks
	toggles []string
}

func (r *recordingInteraction) OnToggle(_ context.Context, relType string, visible bool) {
	if !visible {
		relType = "-" + relType
	}
	r.toggles = append(r.toggles, relType)
}

func TestInteractionHooks(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Fatal("Interaction() should return NoopInteractionHooks by default")
	}
	NoopInteractionHooks{}.OnProximityDrop(context.Background(), true)
	NoopInteractionHooks{}.OnConnect(context.Background(), "SPOUSE", nil)

	rec := &recordingInteraction{}
	SetInteractionHooks(rec)
	SetInteractionHooks(nil)
	Interaction().OnToggle(context.Background(), "PARENT", false)
	Interaction().OnToggle(context.Background(), "PARENT", true)

	if len(rec.toggles) != 2 || rec.toggles[0] != "-PARENT" || rec.toggles[1] != "PARENT" {
		t.Errorf("toggles = %v", rec.toggles)
	}
}
