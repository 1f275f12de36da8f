package vtest

import (
	"fmt"
	"sync"

	"github.com/vango-dev/fiber/pkg/fiber"
)

// Log collects lifecycle calls in order.
type Log struct {
	mu    sync.Mutex
	calls []string
}

// Add appends a call.
func (l *Log) Add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (l *Log) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// Reset clears the log.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// Count returns how many calls equal call.
func (l *Log) Count(call string) int {
	n := 0
	for _, c := range l.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

// RenderFunc renders a recorder instance from its current props and state.
type RenderFunc func(props fiber.Props, state fiber.State) fiber.Node

// Recorded is the instance type built by Recorder.
type Recorded struct {
	fiber.Base

	name   string
	log    *Log
	render RenderFunc

	// Should, when set, answers ShouldComponentUpdate.
	Should func(nextProps fiber.Props, nextState fiber.State) bool

	// OnReceive, when set, runs inside ComponentWillReceiveProps.
	OnReceive func(r *Recorded, nextProps fiber.Props)
}

// Recorder returns a class ComponentType whose instances log every
// lifecycle call as "name.Hook". Instances are also appended to
// *instances when it is non-nil.
func Recorder(name string, log *Log, render RenderFunc, instances ...*[]*Recorded) *fiber.ComponentType {
	return &fiber.ComponentType{
		Name: name,
		New: func(props fiber.Props, ctx fiber.Context) fiber.Component {
			r := &Recorded{name: name, log: log, render: render}
			r.State = fiber.State{}
			for _, list := range instances {
				*list = append(*list, r)
			}
			return r
		},
	}
}

func (r *Recorded) Render() fiber.Node {
	r.log.Add("%s.Render", r.name)
	if r.render == nil {
		return nil
	}
	return r.render(r.Props, r.State)
}

func (r *Recorded) ComponentWillMount() {
	r.log.Add("%s.ComponentWillMount", r.name)
}

func (r *Recorded) ComponentWillReceiveProps(nextProps fiber.Props, nextCtx fiber.Context) {
	r.log.Add("%s.ComponentWillReceiveProps", r.name)
	if r.OnReceive != nil {
		r.OnReceive(r, nextProps)
	}
}

func (r *Recorded) ShouldComponentUpdate(nextProps fiber.Props, nextState fiber.State, nextCtx fiber.Context) bool {
	r.log.Add("%s.ShouldComponentUpdate", r.name)
	if r.Should != nil {
		return r.Should(nextProps, nextState)
	}
	return true
}

func (r *Recorded) ComponentWillUpdate(nextProps fiber.Props, nextState fiber.State, nextCtx fiber.Context) {
	r.log.Add("%s.ComponentWillUpdate", r.name)
}

func (r *Recorded) ComponentDidMount() {
	r.log.Add("%s.ComponentDidMount", r.name)
}

func (r *Recorded) ComponentDidUpdate(prevProps fiber.Props, prevState fiber.State) {
	r.log.Add("%s.ComponentDidUpdate", r.name)
}

func (r *Recorded) ComponentWillUnmount() {
	r.log.Add("%s.ComponentWillUnmount", r.name)
}
