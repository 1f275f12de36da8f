package fiber_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/effect"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/vtest"
)

func showState(key string) vtest.RenderFunc {
	return func(_ fiber.Props, s fiber.State) fiber.Node {
		return fiber.H("i", nil, fmt.Sprint(s[key]))
	}
}

func TestMountAndUnmountOrder(t *testing.T) {
	log := &vtest.Log{}
	inner := vtest.Recorder("Inner", log, nil)
	outer := vtest.Recorder("Outer", log, func(fiber.Props, fiber.State) fiber.Node {
		return fiber.C(inner, nil)
	})
	h := vtest.New(t)

	h.Render(fiber.C(outer, nil))
	want := []string{
		"Outer.ComponentWillMount", "Outer.Render",
		"Inner.ComponentWillMount", "Inner.Render",
		"Inner.ComponentDidMount", "Outer.ComponentDidMount",
	}
	if diff := cmp.Diff(want, log.Calls()); diff != "" {
		t.Errorf("mount order mismatch (-want +got):\n%s", diff)
	}

	log.Reset()
	h.Render(nil)
	want = []string{"Outer.ComponentWillUnmount", "Inner.ComponentWillUnmount"}
	if diff := cmp.Diff(want, log.Calls()); diff != "" {
		t.Errorf("unmount order mismatch (-want +got):\n%s", diff)
	}
}

func TestShouldUpdateFalseBailsOut(t *testing.T) {
	log := &vtest.Log{}
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Pure", log, func(p fiber.Props, _ fiber.State) fiber.Node {
		return fiber.H("p", nil, fmt.Sprint(p["v"]))
	}, &insts)
	h := vtest.New(t)
	h.Render(fiber.C(comp, fiber.Props{"v": 1}))
	insts[0].Should = func(fiber.Props, fiber.State) bool { return false }
	log.Reset()

	pass, err := h.Reconcile(fiber.C(comp, fiber.Props{"v": 2}))
	if err != nil {
		t.Fatal(err)
	}
	f := pass.Root.Child
	if f.EffectTag != effect.NoWork {
		t.Errorf("EffectTag = %v, want NoWork", f.EffectTag)
	}
	if f.Child != f.Alternate.Child {
		t.Error("bail-out should carry the previous child over")
	}
	if f.Children() != f.Alternate.Children() {
		t.Error("bail-out should carry the previous collection over")
	}
	if diff := cmp.Diff([]string{"Pure.ComponentWillReceiveProps", "Pure.ShouldComponentUpdate"}, log.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if insts[0].Props["v"] != 2 {
		t.Error("props should still advance on bail-out")
	}
	if pass.Stats.BailOuts != 1 {
		t.Errorf("BailOuts = %d", pass.Stats.BailOuts)
	}
	for _, e := range pass.Effects {
		if e == f {
			t.Error("a bailed-out fiber must not be committed")
		}
	}
}

func TestBailOutKeepsLaterSiblingsInPlace(t *testing.T) {
	log := &vtest.Log{}
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Pure", log, func(fiber.Props, fiber.State) fiber.Node {
		return []fiber.Node{fiber.H("b", nil), fiber.H("c", nil)}
	}, &insts)
	h := vtest.New(t)
	h.Render([]fiber.Node{fiber.C(comp, nil), fiber.H("d", nil)})
	insts[0].Should = func(fiber.Props, fiber.State) bool { return false }

	pass := h.Render([]fiber.Node{fiber.C(comp, nil), fiber.H("d", nil)})
	d := pass.Root.Child.Sibling
	c := pass.Root.Child.Child.Sibling
	if d.MountPoint != c.StateNode {
		t.Error("d should mount after the carried-over c")
	}
	vtest.ExpectHTML(t, h, "<b></b><c></c><d></d>")
}

func TestRenderSkippedWhenInputsUnchanged(t *testing.T) {
	log := &vtest.Log{}
	var inners []*vtest.Recorded
	inner := vtest.Recorder("Inner", log, showState("n"), &inners)
	outer := vtest.Recorder("Outer", log, func(fiber.Props, fiber.State) fiber.Node {
		return fiber.C(inner, nil)
	})
	h := vtest.New(t)
	tree := fiber.C(outer, nil)
	first := h.Render(tree)
	oldInner := first.Root.Child.Child

	inners[0].SetState(fiber.State{"n": 2})
	if len(h.Scheduled) != 1 || h.Scheduled[0] != inners[0] {
		t.Fatalf("Scheduled = %v", h.Scheduled)
	}
	log.Reset()

	pass, err := h.Reconcile(tree)
	if err != nil {
		t.Fatal(err)
	}
	if pass.Root.Child.Child.Alternate != oldInner {
		t.Error("Inner should be reconciled against its previous fiber")
	}
	h.Commit(pass)
	if log.Count("Outer.Render") != 0 || log.Count("Outer.ComponentWillReceiveProps") != 0 {
		t.Errorf("Outer should not re-render: %v", log.Calls())
	}
	if log.Count("Inner.Render") != 1 {
		t.Errorf("Inner should render its new state: %v", log.Calls())
	}
	if log.Count("Inner.ComponentWillReceiveProps") != 0 {
		t.Error("a state update must not call ComponentWillReceiveProps")
	}
	if pass.Stats.RenderSkips != 1 {
		t.Errorf("RenderSkips = %d", pass.Stats.RenderSkips)
	}
	vtest.ExpectHTML(t, h, "<i>2</i>")
}

func TestForceUpdateSkipsShouldUpdate(t *testing.T) {
	log := &vtest.Log{}
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Pure", log, showState("n"), &insts)
	h := vtest.New(t)
	tree := fiber.C(comp, nil)
	h.Render(tree)

	insts[0].Should = func(fiber.Props, fiber.State) bool { return false }
	insts[0].ForceUpdate()
	log.Reset()
	h.Render(tree)

	want := []string{"Pure.ComponentWillUpdate", "Pure.Render", "Pure.ComponentDidUpdate"}
	if diff := cmp.Diff(want, log.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSetStateDuringReceiveAppliesToPass(t *testing.T) {
	log := &vtest.Log{}
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Echo", log, showState("seen"), &insts)
	h := vtest.New(t)
	h.Render(fiber.C(comp, fiber.Props{"v": 1}))
	insts[0].OnReceive = func(r *vtest.Recorded, next fiber.Props) {
		r.SetState(fiber.State{"seen": next["v"]})
	}

	h.Render(fiber.C(comp, fiber.Props{"v": 2}))
	vtest.ExpectHTML(t, h, "<i>2</i>")
	if len(h.Scheduled) != 0 {
		t.Error("a merged update must not schedule another pass")
	}
	if insts[0].Updater().Pending() != 0 {
		t.Error("nothing should be left queued")
	}
}

func TestDeriveState(t *testing.T) {
	log := &vtest.Log{}
	comp := vtest.Recorder("Derived", log, showState("d"))
	comp.DeriveState = func(p fiber.Props, _ fiber.State) (fiber.State, error) {
		if p["v"] == nil {
			return nil, nil
		}
		return fiber.State{"d": p["v"]}, nil
	}
	h := vtest.New(t)

	h.Render(fiber.C(comp, fiber.Props{"v": "a"}))
	vtest.ExpectHTML(t, h, "<i>a</i>")
	h.Render(fiber.C(comp, fiber.Props{"v": "b"}))
	vtest.ExpectHTML(t, h, "<i>b</i>")
	h.Render(fiber.C(comp, fiber.Props{}))
	vtest.ExpectHTML(t, h, "<i>b</i>")
}

func TestDeriveStateFailureRendersNothing(t *testing.T) {
	comp := vtest.Recorder("Broken", &vtest.Log{}, showState("d"))
	cause := stderrors.New("bad props")
	comp.DeriveState = func(fiber.Props, fiber.State) (fiber.State, error) {
		return nil, cause
	}
	h := vtest.New(t)

	pass := h.Render(fiber.H("div", nil, fiber.C(comp, nil), fiber.H("p", nil)))
	vtest.ExpectHTML(t, h, "<div><p></p></div>")
	if len(h.Errors) != 1 {
		t.Fatalf("Errors = %v", h.Errors)
	}
	le := h.Errors[0]
	if le.Hook != "DeriveState" || !stderrors.Is(le, errors.New("F002")) || !stderrors.Is(le, cause) {
		t.Errorf("error = %v", le)
	}
	if pass.Stats.Recovered != 1 {
		t.Errorf("Recovered = %d", pass.Stats.Recovered)
	}
}

func TestRenderPanicIsRecovered(t *testing.T) {
	boom := &fiber.ComponentType{
		Name: "Boom",
		Render: func(fiber.Props, fiber.Context) fiber.Node {
			panic("boom")
		},
	}
	h := vtest.New(t)
	h.Render([]fiber.Node{fiber.C(boom, nil), fiber.H("p", nil)})

	vtest.ExpectHTML(t, h, "<p></p>")
	if len(h.Errors) != 1 || h.Errors[0].Hook != "Render" {
		t.Fatalf("Errors = %v", h.Errors)
	}
	if !stderrors.Is(h.Errors[0], errors.New("F007")) {
		t.Errorf("err = %v, want F007", h.Errors[0])
	}
}

type themeProvider struct {
	fiber.Base
	theme string
}

func (p *themeProvider) Render() fiber.Node { return p.Props[fiber.ChildrenProp] }

func (p *themeProvider) ChildContext() (fiber.Context, error) {
	return fiber.Context{"theme": p.theme}, nil
}

func TestContextIsolation(t *testing.T) {
	provider := &fiber.ComponentType{
		Name: "Theme",
		New: func(p fiber.Props, _ fiber.Context) fiber.Component {
			return &themeProvider{theme: fmt.Sprint(p["theme"])}
		},
	}
	consumer := &fiber.ComponentType{
		Name:         "Label",
		ContextTypes: []string{"theme"},
		Render: func(_ fiber.Props, ctx fiber.Context) fiber.Node {
			if v, ok := ctx["theme"].(string); ok {
				return fiber.H("span", nil, v)
			}
			return fiber.H("span", nil, "none")
		},
	}
	blind := &fiber.ComponentType{
		Name: "Blind",
		Render: func(_ fiber.Props, ctx fiber.Context) fiber.Node {
			return fiber.H("em", nil, fmt.Sprint(len(ctx)))
		},
	}
	h := vtest.New(t)

	h.Render([]fiber.Node{
		fiber.C(provider, fiber.Props{"theme": "dark"},
			fiber.C(consumer, nil),
			fiber.C(provider, fiber.Props{"theme": "light"}, fiber.C(consumer, nil)),
			fiber.C(blind, nil),
		),
		fiber.C(consumer, nil),
	})
	vtest.ExpectHTML(t, h, "<span>dark</span><span>light</span><em>0</em><span>none</span>")
}

type mapProvider struct {
	fiber.Base
	provides fiber.Context
}

func (p *mapProvider) Render() fiber.Node { return p.Props[fiber.ChildrenProp] }

func (p *mapProvider) ChildContext() (fiber.Context, error) { return p.provides, nil }

func TestChildContextBuildsOnDeclaredKeys(t *testing.T) {
	provider := func(name string, provides fiber.Context, reads ...string) *fiber.ComponentType {
		return &fiber.ComponentType{
			Name:         name,
			ContextTypes: reads,
			New: func(fiber.Props, fiber.Context) fiber.Component {
				return &mapProvider{provides: provides}
			},
		}
	}
	show := func(ctx fiber.Context, key string) string {
		if v, ok := ctx[key].(string); ok {
			return v
		}
		return "-"
	}
	reader := &fiber.ComponentType{
		Name:         "Reader",
		ContextTypes: []string{"a", "b"},
		Render: func(_ fiber.Props, ctx fiber.Context) fiber.Node {
			return fiber.H("span", nil, show(ctx, "a")+"/"+show(ctx, "b"))
		},
	}
	outer := provider("A", fiber.Context{"a": "A"})

	tests := []struct {
		name  string
		inner *fiber.ComponentType
		want  string
	}{
		{"undeclared keys are not passed through", provider("B", fiber.Context{"b": "B"}), "<span>-/B</span>"},
		{"declared keys are passed through", provider("B", fiber.Context{"b": "B"}, "a"), "<span>A/B</span>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := vtest.New(t)
			h.Render(fiber.C(outer, nil, fiber.C(tt.inner, nil, fiber.C(reader, nil))))
			vtest.ExpectHTML(t, h, tt.want)
		})
	}
}

func TestDeriveStateSeesCommittedState(t *testing.T) {
	var baselines []fiber.State
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Derived", &vtest.Log{}, showState("pending"), &insts)
	comp.DeriveState = func(_ fiber.Props, prev fiber.State) (fiber.State, error) {
		baselines = append(baselines, prev)
		return nil, nil
	}
	h := vtest.New(t)
	h.Render(fiber.C(comp, fiber.Props{"v": 1}))

	insts[0].SetState(fiber.State{"pending": true})
	h.Render(fiber.C(comp, fiber.Props{"v": 2}))

	if diff := cmp.Diff([]fiber.State{{}, {}}, baselines); diff != "" {
		t.Errorf("baselines mismatch (-want +got):\n%s", diff)
	}
	vtest.ExpectHTML(t, h, "<i>true</i>")
}

func TestOwnerAttribution(t *testing.T) {
	var insts []*vtest.Recorded
	comp := vtest.Recorder("Card", &vtest.Log{}, func(fiber.Props, fiber.State) fiber.Node {
		return fiber.H("div", nil, fiber.H("b", nil))
	}, &insts)
	h := vtest.New(t)
	h.Render(fiber.C(comp, nil))

	b := h.Find(func(f *fiber.Fiber) bool { return f.Name == "b" })
	if b == nil {
		t.Fatal("b not found")
	}
	if b.Owner != insts[0] {
		t.Errorf("Owner = %v, want the Card instance", b.Owner)
	}
	if h.Root.Current().Child.Owner != nil {
		t.Error("elements declared outside a render have no owner")
	}
}

func TestOwnerOfPassedChildren(t *testing.T) {
	log := &vtest.Log{}
	var wrappers, outers []*vtest.Recorded
	wrapper := vtest.Recorder("Wrapper", log, func(p fiber.Props, _ fiber.State) fiber.Node {
		return p[fiber.ChildrenProp]
	}, &wrappers)
	outer := vtest.Recorder("Outer", log, func(fiber.Props, fiber.State) fiber.Node {
		return fiber.C(wrapper, nil, fiber.H("span", nil))
	}, &outers)
	h := vtest.New(t)
	h.Render(fiber.C(outer, nil))

	span := h.Find(func(f *fiber.Fiber) bool { return f.Name == "span" })
	if span == nil {
		t.Fatal("span not found")
	}
	if span.Owner != outers[0] {
		t.Errorf("span owner = %v, want the Outer instance that created it", span.Owner)
	}
	if w := h.Find(func(f *fiber.Fiber) bool { return f.Name == "Wrapper" }); w == nil || w.Owner != outers[0] {
		t.Error("Wrapper element should be owned by Outer")
	}
	vtest.ExpectHTML(t, h, "<span></span>")
}

func TestInstanceFactoryFailure(t *testing.T) {
	h := vtest.New(t, fiber.WithInstanceFactory(fiber.InstanceFactoryFunc(
		func(*fiber.Fiber, fiber.Context) (fiber.Component, error) {
			return nil, stderrors.New("no instance")
		})))
	comp := vtest.Recorder("X", &vtest.Log{}, nil)

	_, err := h.Reconcile(fiber.C(comp, nil))
	if !stderrors.Is(err, errors.New("F004")) {
		t.Errorf("err = %v, want F004", err)
	}
}
