package fiber

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/effect"
)

// Default tracer name for reconciliation spans.
const defaultTracerName = "github.com/vango-dev/fiber"

// Reconciler runs reconciliation passes. Passes on one Reconciler must not
// overlap; Run returns F006 if they do.
type Reconciler struct {
	hosts      HostFactory
	instances  InstanceFactory
	normalizer Normalizer
	schedule   func(Component)
	errorSink  func(*LifecycleError)
	observers  []func(*Pass)
	logger     *slog.Logger
	tracer     trace.Tracer

	running atomic.Bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithInstanceFactory replaces DefaultInstances.
func WithInstanceFactory(f InstanceFactory) Option {
	return func(r *Reconciler) {
		r.instances = f
	}
}

// WithNormalizer replaces DefaultNormalizer.
func WithNormalizer(n Normalizer) Option {
	return func(r *Reconciler) {
		r.normalizer = n
	}
}

// WithScheduler sets the hook SetState and ForceUpdate call after queueing
// an update. The hook decides when the next pass runs.
func WithScheduler(fn func(Component)) Option {
	return func(r *Reconciler) {
		r.schedule = fn
	}
}

// WithErrorSink receives every recovered lifecycle failure.
func WithErrorSink(fn func(*LifecycleError)) Option {
	return func(r *Reconciler) {
		r.errorSink = fn
	}
}

// WithObserver is called with every completed pass.
func WithObserver(fn func(*Pass)) Option {
	return func(r *Reconciler) {
		r.observers = append(r.observers, fn)
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithTracerProvider sets the tracer provider (default: the global one).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Reconciler) {
		r.tracer = tp.Tracer(defaultTracerName)
	}
}

// NewReconciler creates a Reconciler that builds host objects with hosts.
func NewReconciler(hosts HostFactory, opts ...Option) *Reconciler {
	r := &Reconciler{
		hosts:      hosts,
		instances:  DefaultInstances{},
		normalizer: DefaultNormalizer{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root is a root container and the fiber tree last reconciled into it.
type Root struct {
	container any
	current   *Fiber
}

// NewRoot creates a root for the given host container.
func NewRoot(container any) *Root {
	return &Root{container: container}
}

// Container returns the host container.
func (r *Root) Container() any { return r.container }

// Current returns the root fiber of the last successful pass, or nil.
func (r *Root) Current() *Fiber { return r.current }

// Stats summarizes one pass.
type Stats struct {
	Fibers      int
	Components  int
	Hosts       int
	BailOuts    int
	RenderSkips int
	Teardowns   int
	Recovered   int
	Duration    time.Duration
}

// Pass is the result of one reconciliation pass.
type Pass struct {
	Root *Fiber

	// Effects lists every fiber needing commit work, exactly once.
	// Committing the pass resets their tags and alternates.
	Effects []*Fiber

	// Tags holds each effect fiber's tag as the pass computed it. Commit
	// leaves it unchanged.
	Tags []effect.Tag

	Stats Stats
}

// Tag returns the tag the pass computed for Effects[i].
func (p *Pass) Tag(i int) effect.Tag {
	if i < len(p.Tags) {
		return p.Tags[i]
	}
	return p.Effects[i].EffectTag
}

// EffectCounts counts the effects in the pass by kind.
func (p *Pass) EffectCounts() map[effect.Effect]int {
	counts := make(map[effect.Effect]int)
	for i := range p.Effects {
		for _, e := range p.Tag(i).Effects() {
			counts[e]++
		}
	}
	return counts
}

// passState is threaded through one pass.
type passState struct {
	scope Scope
	stats Stats
}

// Render reconciles children into root and returns the pass. On success
// the new root fiber becomes root.Current().
func (r *Reconciler) Render(ctx context.Context, root *Root, children Node) (*Pass, error) {
	f := newFiber(&Element{
		Kind:  KindElement,
		Type:  RootType,
		Props: Props{ChildrenProp: children},
	})
	f.Root = true
	f.mapKey = ".0"
	f.StateNode = root.container
	if root.current != nil {
		f.Alternate = root.current
	}

	pass, err := r.Run(ctx, f)
	if err != nil {
		return nil, err
	}
	root.current = f
	return pass, nil
}

// Run reconciles the tree below f in one uninterrupted depth-first pass.
// A host construction failure aborts the pass and is returned.
func (r *Reconciler) Run(ctx context.Context, f *Fiber) (*Pass, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, errors.New("F006").WithFiber(f.Path())
	}
	defer r.running.Store(false)

	_, span := r.tracer.Start(ctx, "fiber.Reconcile",
		trace.WithAttributes(attribute.String("fiber.root", f.String())))
	defer span.End()

	start := time.Now()
	st := &passState{}
	if err := r.performWork(f, st); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("reconcile aborted", "root", f.String(), "error", err)
		return nil, err
	}
	st.stats.Duration = time.Since(start)

	effects := f.effects
	if f.EffectTag.HasEffects() {
		effects = append(effects, f)
	}
	tags := make([]effect.Tag, len(effects))
	for i, e := range effects {
		tags[i] = e.EffectTag
		if e.EffectTag.Has(effect.Detach) {
			st.stats.Teardowns++
		}
	}
	pass := &Pass{Root: f, Effects: effects, Tags: tags, Stats: st.stats}

	span.SetAttributes(
		attribute.Int("fiber.count", st.stats.Fibers),
		attribute.Int("fiber.effects", len(effects)),
		attribute.Int("fiber.teardowns", st.stats.Teardowns),
	)
	span.SetStatus(codes.Ok, "")

	r.logger.Debug("reconcile complete",
		"root", f.String(),
		"fibers", st.stats.Fibers,
		"effects", len(effects),
		"duration", st.stats.Duration,
	)
	for _, obs := range r.observers {
		obs(pass)
	}
	return pass, nil
}

// performWork dispatches f, walks its new children and completes it.
// A context pushed by f is popped before returning, on every path.
func (r *Reconciler) performWork(f *Fiber, st *passState) error {
	if f.Disposed {
		return nil
	}
	pushed, err := r.beginWork(f, st)
	if pushed {
		defer st.scope.PopContext()
	}
	if err != nil {
		return err
	}
	if f.EffectTag != effect.NoWork {
		for c := f.Child; c != nil; c = c.Sibling {
			if err := r.performWork(c, st); err != nil {
				return err
			}
		}
	}
	completeWork(f)
	return nil
}

// completeWork hands f's collected effects, and f itself if it needs work,
// to its logical parent.
func completeWork(f *Fiber) {
	parent := f.Return
	if parent == nil {
		return
	}
	parent.effects = append(parent.effects, f.effects...)
	if f.EffectTag.HasEffects() {
		parent.effects = append(parent.effects, f)
	}
}
