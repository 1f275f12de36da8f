package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/fiber/pkg/commit"
	"github.com/vango-dev/fiber/pkg/effect"
	"github.com/vango-dev/fiber/pkg/fiber"
)

// Harness reconciles into an in-memory host and commits each pass.
type Harness struct {
	t testing.TB

	Mem        *commit.Memory
	Reconciler *fiber.Reconciler
	Root       *fiber.Root

	// Passes holds every successful pass, oldest first.
	Passes []*fiber.Pass

	// Scheduled holds every component that queued an update.
	Scheduled []fiber.Component

	// Errors holds every recovered lifecycle failure.
	Errors []*fiber.LifecycleError
}

// New creates a Harness. Extra options are applied after the harness's own.
func New(t testing.TB, opts ...fiber.Option) *Harness {
	h := &Harness{t: t, Mem: commit.NewMemory()}
	base := []fiber.Option{
		fiber.WithScheduler(func(c fiber.Component) {
			h.Scheduled = append(h.Scheduled, c)
		}),
		fiber.WithErrorSink(func(le *fiber.LifecycleError) {
			h.Errors = append(h.Errors, le)
		}),
	}
	h.Reconciler = fiber.NewReconciler(h.Mem, append(base, opts...)...)
	h.Root = fiber.NewRoot(h.Mem.Container)
	return h
}

// Render reconciles children, commits the pass and returns it. Any error
// fails the test. Alternates are cleared by then; use Reconcile and
// Commit to inspect them.
func (h *Harness) Render(children fiber.Node) *fiber.Pass {
	h.t.Helper()
	pass, err := h.Reconcile(children)
	if err != nil {
		h.t.Fatalf("reconcile failed: %v", err)
	}
	h.Commit(pass)
	return pass
}

// Commit applies pass to the in-memory host. Any error fails the test.
func (h *Harness) Commit(pass *fiber.Pass) {
	h.t.Helper()
	if err := commit.Apply(pass, h.Mem); err != nil {
		h.t.Fatalf("commit failed: %v", err)
	}
}

// Reconcile runs a pass without committing it.
func (h *Harness) Reconcile(children fiber.Node) (*fiber.Pass, error) {
	pass, err := h.Reconciler.Render(context.Background(), h.Root, children)
	if err != nil {
		return nil, err
	}
	h.Passes = append(h.Passes, pass)
	return pass, nil
}

// HTML returns the committed host tree.
func (h *Harness) HTML() string {
	return h.Mem.Container.HTML()
}

// Find returns the first fiber of the current tree matching pred.
func (h *Harness) Find(pred func(*fiber.Fiber) bool) *fiber.Fiber {
	var found *fiber.Fiber
	h.Root.Current().Walk(func(f *fiber.Fiber) bool {
		if found != nil {
			return false
		}
		if pred(f) {
			found = f
			return false
		}
		return true
	})
	return found
}

// FindKey returns the first fiber of the current tree with the given key.
func (h *Harness) FindKey(key string) *fiber.Fiber {
	return h.Find(func(f *fiber.Fiber) bool { return f.Key == key })
}

// ExpectHTML asserts the committed host tree.
func ExpectHTML(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("HTML mismatch:\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts the committed host tree contains expected.
func ExpectContains(t testing.TB, h *Harness, expected string) {
	t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectEffects asserts f's effect tag decodes to exactly want.
func ExpectEffects(t testing.TB, f *fiber.Fiber, want ...effect.Effect) {
	t.Helper()
	if f == nil {
		t.Fatalf("ExpectEffects: nil fiber")
	}
	got := f.EffectTag.Effects()
	if len(want) == 0 {
		want = nil
	}
	if diff := cmp.Diff(sortEffects(want), got); diff != "" {
		t.Errorf("effects of %s mismatch (-want +got):\n%s", f, diff)
	}
}

// EffectNames renders a pass's effect list as "fiber:Effects" strings.
func EffectNames(p *fiber.Pass) []string {
	out := make([]string, len(p.Effects))
	for i, f := range p.Effects {
		out[i] = f.String() + ":" + p.Tag(i).String()
	}
	return out
}

func sortEffects(effects []effect.Effect) []effect.Effect {
	if effects == nil {
		return nil
	}
	set := make(map[effect.Effect]bool, len(effects))
	for _, e := range effects {
		set[e] = true
	}
	var out []effect.Effect
	for _, e := range effect.All {
		if set[e] {
			out = append(out, e)
		}
	}
	return out
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
