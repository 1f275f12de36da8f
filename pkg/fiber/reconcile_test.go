package fiber_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/commit"
	"github.com/vango-dev/fiber/pkg/effect"
	"github.com/vango-dev/fiber/pkg/fiber"
	"github.com/vango-dev/fiber/pkg/vtest"
)

func li(key string, children ...fiber.Node) *fiber.Element {
	return fiber.H("li", fiber.Props{"key": key}, children...)
}

func TestMountEmitsPlacementInOrder(t *testing.T) {
	h := vtest.New(t)
	pass, err := h.Reconcile([]fiber.Node{li("1", "A"), li("2", "B")})
	if err != nil {
		t.Fatal(err)
	}

	// Children complete before their parents.
	want := []string{
		"#text:Place|Content", "li#1:Place|Attr",
		"#text:Place|Content", "li#2:Place|Attr",
	}
	if diff := cmp.Diff(want, vtest.EffectNames(pass)); diff != "" {
		t.Errorf("effects mismatch (-want +got):\n%s", diff)
	}

	a := pass.Root.Child
	b := a.Sibling
	if a.MountPoint != nil {
		t.Errorf("first child MountPoint = %v, want nil", a.MountPoint)
	}
	if b.MountPoint != a.StateNode {
		t.Error("second child should mount after the first")
	}
	if b.Sibling != nil {
		t.Error("last child must not carry a sibling")
	}
	if a.Index != 0 || b.Index != 1 {
		t.Errorf("indexes = %d, %d", a.Index, b.Index)
	}

	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	vtest.ExpectHTML(t, h, "<li>A</li><li>B</li>")
}

func TestIdentityContinuity(t *testing.T) {
	h := vtest.New(t)
	first := h.Render([]fiber.Node{li("1"), li("2")})
	oldA, oldB := first.Root.Child, first.Root.Child.Sibling

	pass, err := h.Reconcile([]fiber.Node{li("1"), li("2")})
	if err != nil {
		t.Fatal(err)
	}
	a, b := pass.Root.Child, pass.Root.Child.Sibling
	if a.Alternate != oldA || b.Alternate != oldB {
		t.Error("same key and type should continue the previous fiber")
	}
	if a.StateNode != oldA.StateNode || b.StateNode != oldB.StateNode {
		t.Error("host objects should carry over")
	}
	if pass.Stats.Teardowns != 0 {
		t.Errorf("Teardowns = %d, want 0", pass.Stats.Teardowns)
	}
}

func TestSwappedKeysReuseBothFibers(t *testing.T) {
	h := vtest.New(t)
	h.Render([]fiber.Node{li("1", "A"), li("2", "B")})
	created := h.Mem.Created

	pass, err := h.Reconcile([]fiber.Node{li("2", "B"), li("1", "A")})
	if err != nil {
		t.Fatal(err)
	}
	b, a := pass.Root.Child, pass.Root.Child.Sibling
	if a.Key != "1" || b.Key != "2" {
		t.Fatalf("order = %s, %s", b, a)
	}
	if a.Alternate == nil || b.Alternate == nil {
		t.Fatal("both fibers should be reused")
	}
	for _, f := range pass.Effects {
		if f.EffectTag.Has(effect.Detach) {
			t.Errorf("unexpected teardown of %s", f)
		}
	}
	vtest.ExpectEffects(t, a, effect.Place, effect.Attr)
	vtest.ExpectEffects(t, b, effect.Place, effect.Attr)
	if b.MountPoint != nil || a.MountPoint != b.StateNode {
		t.Error("A should now mount after B")
	}

	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	if h.Mem.Created != created {
		t.Errorf("created %d new host nodes, want 0", h.Mem.Created-created)
	}
	vtest.ExpectHTML(t, h, "<li>B</li><li>A</li>")
}

func TestChangedKeyReplaces(t *testing.T) {
	h := vtest.New(t)
	first := h.Render(li("a"))
	old := first.Root.Child

	pass, err := h.Reconcile(li("b"))
	if err != nil {
		t.Fatal(err)
	}
	f := pass.Root.Child
	if f.Alternate != nil {
		t.Error("a changed key must not continue the old fiber")
	}
	if f.StateNode == old.StateNode {
		t.Error("a changed key must get a fresh host object")
	}
	if !old.Disposed || !old.EffectTag.Has(effect.Detach) {
		t.Error("old fiber should be torn down")
	}
}

func TestChangedTypeReplaces(t *testing.T) {
	h := vtest.New(t)
	first := h.Render(fiber.H("li", fiber.Props{"key": "a"}))
	old := first.Root.Child

	pass, err := h.Reconcile(fiber.H("p", fiber.Props{"key": "a"}))
	if err != nil {
		t.Fatal(err)
	}
	if pass.Root.Child.Alternate != nil {
		t.Error("a changed type must not continue the old fiber")
	}
	if !old.Disposed {
		t.Error("old fiber should be disposed")
	}
	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	vtest.ExpectHTML(t, h, "<p></p>")
}

func TestTextContentChange(t *testing.T) {
	h := vtest.New(t)
	h.Render(fiber.H("p", nil, "x"))

	pass, err := h.Reconcile(fiber.H("p", nil, "y"))
	if err != nil {
		t.Fatal(err)
	}
	text := pass.Root.Child.Child
	if text.Kind != fiber.KindText {
		t.Fatalf("child kind = %v", text.Kind)
	}
	vtest.ExpectEffects(t, text, effect.Place, effect.Content)
	if text.Child != nil || text.Children() != nil {
		t.Error("text fibers must not reconcile children")
	}

	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	vtest.ExpectHTML(t, h, "<p>y</p>")

	same, err := h.Reconcile(fiber.H("p", nil, "y"))
	if err != nil {
		t.Fatal(err)
	}
	if same.Root.Child.Child.EffectTag.Has(effect.Content) {
		t.Error("unchanged text should not get Content")
	}
}

func TestTeardownOrdering(t *testing.T) {
	h := vtest.New(t)
	ref := &fiber.Ref{}
	first := h.Render(fiber.H("div", fiber.Props{"ref": ref},
		fiber.H("span", nil, "t"),
	))
	div := first.Root.Child
	span := div.Child
	text := span.Child
	if ref.Current != div.StateNode {
		t.Fatal("ref should be attached after commit")
	}

	pass, err := h.Reconcile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pass.Effects) != 3 {
		t.Fatalf("effects = %v", vtest.EffectNames(pass))
	}
	if pass.Effects[0] != div || pass.Effects[1] != span || pass.Effects[2] != text {
		t.Errorf("teardown order = %v, want root first", vtest.EffectNames(pass))
	}
	vtest.ExpectEffects(t, div, effect.NullRef, effect.Detach)
	vtest.ExpectEffects(t, span, effect.Detach)
	for _, f := range []*fiber.Fiber{div, span, text} {
		if !f.Disposed {
			t.Errorf("%s not disposed", f)
		}
	}

	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	if ref.Current != nil {
		t.Error("ref should be cleared")
	}
	vtest.ExpectHTML(t, h, "")
}

func TestTeardownOfComponentQueuesHook(t *testing.T) {
	log := &vtest.Log{}
	comp := vtest.Recorder("Box", log, func(fiber.Props, fiber.State) fiber.Node {
		return fiber.H("b", nil)
	})
	h := vtest.New(t)
	h.Render(fiber.C(comp, nil))

	pass, err := h.Reconcile(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pass.Effects) != 2 {
		t.Fatalf("effects = %v", vtest.EffectNames(pass))
	}
	vtest.ExpectEffects(t, pass.Effects[0], effect.Detach, effect.Hook)
	vtest.ExpectEffects(t, pass.Effects[1], effect.Detach)
}

func TestRefChangeClearsOldRef(t *testing.T) {
	h := vtest.New(t)
	r1, r2 := &fiber.Ref{}, &fiber.Ref{}
	h.Render(fiber.H("input", fiber.Props{"ref": r1}))
	node := r1.Current

	pass, err := h.Reconcile(fiber.H("input", fiber.Props{"ref": r2}))
	if err != nil {
		t.Fatal(err)
	}
	f := pass.Root.Child
	if f.Alternate == nil {
		t.Fatal("a ref change must not replace the node")
	}
	if !f.Alternate.EffectTag.Has(effect.NullRef) {
		t.Error("old fiber should get NullRef")
	}
	vtest.ExpectEffects(t, f, effect.Place, effect.Attr, effect.Ref)

	if err := commit.Apply(pass, h.Mem); err != nil {
		t.Fatal(err)
	}
	if r1.Current != nil {
		t.Error("old ref should be cleared")
	}
	if r2.Current != node {
		t.Error("new ref should point at the reused node")
	}
}

func TestMountPointSkipsComponents(t *testing.T) {
	pair := &fiber.ComponentType{
		Name: "Pair",
		Render: func(fiber.Props, fiber.Context) fiber.Node {
			return []fiber.Node{fiber.H("b", nil), fiber.H("c", nil)}
		},
	}
	h := vtest.New(t)
	pass := h.Render([]fiber.Node{fiber.H("a", nil), fiber.C(pair, nil), fiber.H("d", nil)})

	a := pass.Root.Child
	comp := a.Sibling
	b := comp.Child
	c := b.Sibling
	d := comp.Sibling

	if b.Parent != pass.Root || c.Parent != pass.Root {
		t.Error("children of a component belong to the nearest host parent")
	}
	if comp.MountPoint != a.StateNode {
		t.Error("component mount point should be the previous host node")
	}
	if b.MountPoint != a.StateNode || c.MountPoint != b.StateNode || d.MountPoint != c.StateNode {
		t.Error("mount points should chain through the component")
	}
	vtest.ExpectHTML(t, h, "<a></a><b></b><c></c><d></d>")
}

func TestHostConstructionFailureAbortsPass(t *testing.T) {
	h := vtest.New(t)
	cause := stderrors.New("device lost")
	h.Mem.Fail = func(f *fiber.Fiber) error {
		if f.Name == "canvas" {
			return cause
		}
		return nil
	}

	_, err := h.Reconcile(fiber.H("div", nil, fiber.H("canvas", nil)))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !stderrors.Is(err, errors.New("F001")) {
		t.Errorf("err = %v, want F001", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("err should wrap the factory failure")
	}
	if h.Root.Current() != nil {
		t.Error("a failed pass must not become current")
	}
}

func TestOverlappingPassIsRejected(t *testing.T) {
	var rec *fiber.Reconciler
	var nested error
	comp := &fiber.ComponentType{
		Name: "Nested",
		Render: func(fiber.Props, fiber.Context) fiber.Node {
			_, nested = rec.Render(context.Background(), fiber.NewRoot(nil), nil)
			return nil
		},
	}
	h := vtest.New(t)
	rec = h.Reconciler
	h.Render(fiber.C(comp, nil))

	if !stderrors.Is(nested, errors.New("F006")) {
		t.Errorf("nested pass err = %v, want F006", nested)
	}
}

func TestObserverSeesEveryPass(t *testing.T) {
	var seen []*fiber.Pass
	h := vtest.New(t, fiber.WithObserver(func(p *fiber.Pass) { seen = append(seen, p) }))
	h.Render(fiber.H("p", nil))
	h.Render(fiber.H("p", nil))

	if len(seen) != 2 {
		t.Fatalf("observer saw %d passes", len(seen))
	}
	if seen[0].Stats.Fibers != 2 || seen[0].Stats.Hosts != 2 {
		t.Errorf("stats = %+v", seen[0].Stats)
	}
	counts := h.Passes[1].EffectCounts()
	if counts[effect.Place] != 1 || counts[effect.Attr] != 1 {
		t.Errorf("EffectCounts = %v", counts)
	}
}

func TestNestedSequencesReconcileByPosition(t *testing.T) {
	h := vtest.New(t)
	render := func(items ...string) fiber.Node {
		var nodes []fiber.Node
		for _, it := range items {
			nodes = append(nodes, li(it, it))
		}
		return fiber.H("ul", nil, fiber.H("li", nil, "head"), nodes)
	}
	h.Render(render("a", "b"))
	vtest.ExpectHTML(t, h, "<ul><li>head</li><li>a</li><li>b</li></ul>")

	h.Render(render("b", "c"))
	vtest.ExpectHTML(t, h, "<ul><li>head</li><li>b</li><li>c</li></ul>")

	ul := h.Root.Current().Child
	if diff := cmp.Diff([]string{".0", ".1:$b", ".1:$c"}, ul.Children().Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if got := fmt.Sprint(h.Passes[1].Stats.Teardowns); got != "2" {
		t.Errorf("Teardowns = %s, want 2 (li#a and its text)", got)
	}
}

func TestPassKeepsTagsAfterCommit(t *testing.T) {
	h := vtest.New(t)
	pass, err := h.Reconcile(fiber.H("ul", nil, li("1", "A")))
	if err != nil {
		t.Fatal(err)
	}
	before := vtest.EffectNames(pass)
	counts := pass.EffectCounts()
	h.Commit(pass)

	for _, f := range pass.Effects {
		if f.EffectTag != effect.Working {
			t.Fatalf("%s tag = %v after commit", f, f.EffectTag)
		}
	}
	if diff := cmp.Diff(before, vtest.EffectNames(pass)); diff != "" {
		t.Errorf("effect names changed by commit (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(counts, pass.EffectCounts()); diff != "" {
		t.Errorf("effect counts changed by commit (-before +after):\n%s", diff)
	}
	if counts[effect.Place] != 3 {
		t.Errorf("Place count = %d, want 3", counts[effect.Place])
	}
}
