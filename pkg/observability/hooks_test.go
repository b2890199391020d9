package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder counts the events it sees in every category.
type recorder struct {
	NoopPipelineHooks
	NoopHTTPHooks

	mu     sync.Mutex
	events map[string]int
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string]int{}
	}
	r.events[name]++
}

func (r *recorder) OnLayoutStart(context.Context, int)      { r.add("layout") }
func (r *recorder) OnCacheHit(context.Context, string)      { r.add("hit") }
func (r *recorder) OnCacheMiss(context.Context, string)     { r.add("miss") }
func (r *recorder) OnCacheSet(context.Context, string, int) { r.add("set") }
func (r *recorder) OnResponse(context.Context, string, string, int, time.Duration) {
	r.add("response")
}
func (r *recorder) OnToolRun(context.Context, string, string, time.Duration, error) { r.add("tool") }
func (r *recorder) OnNavigate(context.Context, string, int, int)                    { r.add("navigate") }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnRenderComplete(ctx, []string{"html", "svg"}, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "artifact", 2048)
	HTTP().OnRequest(ctx, "POST", "/gallery/next")
	Tools().OnNavigate(ctx, "dismiss", 2, -1)

	if _, ok := Tools().(NoopToolHooks); !ok {
		t.Errorf("Tools() = %T, want NoopToolHooks", Tools())
	}
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)
	SetToolHooks(rec)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, 12)
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheSet(ctx, "layout", 512)
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnResponse(ctx, "GET", "/gallery", 200, time.Millisecond)
	Tools().OnToolRun(ctx, "flashcards", "generate", 0, nil)
	Tools().OnNavigate(ctx, "activate", -1, 0)

	for _, name := range []string{"layout", "miss", "set", "hit", "response", "tool", "navigate"} {
		if rec.events[name] != 1 {
			t.Errorf("%s events = %d, want 1", name, rec.events[name])
		}
	}

	SetCacheHooks(nil)
	if Cache() != rec {
		t.Error("SetCacheHooks(nil) should keep the registered hooks")
	}

	Reset()
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("after Reset Cache() = %T", Cache())
	}
}

func TestHooksConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recorder{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetToolHooks(rec)
		}()
		go func() {
			defer wg.Done()
			Tools().OnNavigate(context.Background(), "next", 0, 1)
		}()
	}
	wg.Wait()
}
