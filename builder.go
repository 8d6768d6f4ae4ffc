package versionchain

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// link is one chain member: the decode attempt of its version and the step
// that produces it from the previous member (nil for the oldest version).
type link struct {
	name     string
	decode   func(ctx context.Context, payload []byte) (any, error)
	convert  func(ctx context.Context, prev any) (any, error)
	accepts  func(v any) bool
	mapErr   ErrorMapper
	fallible bool
}

// buildState is copied on every append so that builders never share links.
// Extending a builder twice yields two independent chains.
type buildState struct {
	opt   ChainOpt
	links []link
	err   error
}

func (st *buildState) with(l link, stepMissing bool) *buildState {
	next := &buildState{opt: st.opt, err: st.err}
	next.links = make([]link, len(st.links), len(st.links)+1)
	copy(next.links, st.links)
	idx := len(next.links)
	if next.err == nil {
		next.err = validateLink(next.links, l, idx, stepMissing)
	}
	next.links = append(next.links, l)
	return next
}

func validateLink(prev []link, l link, idx int, stepMissing bool) error {
	if l.name == "" {
		return &ConstructionError{Index: idx, Reason: "version name is empty"}
	}
	for _, p := range prev {
		if p.name == l.name {
			return &ConstructionError{Index: idx, Version: l.name, Reason: "duplicate version name"}
		}
	}
	if l.decode == nil {
		return &ConstructionError{Index: idx, Version: l.name, Reason: "no decoder and no chain format"}
	}
	if stepMissing {
		return &ConstructionError{Index: idx, Version: l.name, Reason: fmt.Sprintf("missing conversion step from %q", prev[idx-1].name)}
	}
	if l.fallible && l.mapErr == nil {
		return &ConstructionError{Index: idx, Version: l.name, Reason: "fallible step has no error mapper"}
	}
	return nil
}

func decodeFor[T any](opt ChainOpt, v Version[T]) func(context.Context, []byte) (any, error) {
	dec := v.Decoder
	if dec == nil {
		if opt.Format == nil {
			return nil
		}
		dec = FormatDecoder[T](opt.Format)
	}
	return func(ctx context.Context, payload []byte) (any, error) {
		val, err := dec.Decode(ctx, payload)
		if err != nil {
			return nil, err
		}
		return val, nil
	}
}

func acceptsFor[T any]() func(any) bool {
	return func(v any) bool {
		_, ok := v.(T)
		return ok
	}
}

func infallible[A, B any](step Step[A, B]) func(context.Context, any) (any, error) {
	return func(ctx context.Context, prev any) (any, error) {
		a, _ := prev.(A)
		return step(ctx, a), nil
	}
}

func fallible[A, B any](step TryStep[A, B]) func(context.Context, any) (any, error) {
	return func(ctx context.Context, prev any) (any, error) {
		a, _ := prev.(A)
		b, err := step(ctx, a)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// Builder assembles a chain whose steps are all infallible. T is the newest
// version registered so far.
type Builder[T any] struct{ st *buildState }

// TryBuilder assembles a chain containing at least one fallible step.
type TryBuilder[T any] struct{ st *buildState }

// Start begins a chain whose oldest version is v. The last opts wins.
func Start[T any](v Version[T], opts ...ChainOpt) *Builder[T] {
	var opt ChainOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	root := &buildState{opt: opt}
	return &Builder[T]{st: root.with(link{
		name:    v.Name,
		decode:  decodeFor(opt, v),
		accepts: acceptsFor[T](),
	}, false)}
}

// Then appends version v produced from the current newest version by an
// infallible step.
func Then[A, B any](b *Builder[A], v Version[B], step Step[A, B]) *Builder[B] {
	st := b.state()
	l := link{name: v.Name, decode: decodeFor(st.opt, v), accepts: acceptsFor[B]()}
	if step != nil {
		l.convert = infallible(step)
	}
	return &Builder[B]{st: st.with(l, step == nil)}
}

// ThenTry appends version v produced by a fallible step. mapErr embeds the
// step's errors into MigrationError.Cause; a nil mapErr is a construction
// error.
func ThenTry[A, B any](b *Builder[A], v Version[B], step TryStep[A, B], mapErr ErrorMapper) *TryBuilder[B] {
	return &TryBuilder[B]{st: appendTry(b.state(), v, step, mapErr)}
}

// TryThen appends version v produced by an infallible step to a fallible chain.
func TryThen[A, B any](b *TryBuilder[A], v Version[B], step Step[A, B]) *TryBuilder[B] {
	st := b.state()
	l := link{name: v.Name, decode: decodeFor(st.opt, v), accepts: acceptsFor[B]()}
	if step != nil {
		l.convert = infallible(step)
	}
	return &TryBuilder[B]{st: st.with(l, step == nil)}
}

// TryThenTry appends version v produced by a fallible step to a fallible chain.
func TryThenTry[A, B any](b *TryBuilder[A], v Version[B], step TryStep[A, B], mapErr ErrorMapper) *TryBuilder[B] {
	return &TryBuilder[B]{st: appendTry(b.state(), v, step, mapErr)}
}

func appendTry[B, A any](st *buildState, v Version[B], step TryStep[A, B], mapErr ErrorMapper) *buildState {
	l := link{name: v.Name, decode: decodeFor(st.opt, v), accepts: acceptsFor[B](), mapErr: mapErr, fallible: true}
	if step != nil {
		l.convert = fallible(step)
	}
	return st.with(l, step == nil)
}

func (b *Builder[T]) state() *buildState {
	if b == nil || b.st == nil {
		return &buildState{err: &ConstructionError{Reason: "nil builder"}}
	}
	return b.st
}

func (b *TryBuilder[T]) state() *buildState {
	if b == nil || b.st == nil {
		return &buildState{err: &ConstructionError{Reason: "nil builder"}}
	}
	return b.st
}

// Build validates the chain and returns it. The result is immutable.
func (b *Builder[T]) Build() (*Chain[T], error) {
	core, err := b.state().build()
	if err != nil {
		return nil, err
	}
	return &Chain[T]{core: core}, nil
}

// MustBuild is like Build but panics on construction errors. It is meant for
// package-level chain variables.
func (b *Builder[T]) MustBuild() *Chain[T] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// Build validates the chain and returns it. The result is immutable.
func (b *TryBuilder[T]) Build() (*TryChain[T], error) {
	core, err := b.state().build()
	if err != nil {
		return nil, err
	}
	return &TryChain[T]{core: core}, nil
}

// MustBuild is like Build but panics on construction errors.
func (b *TryBuilder[T]) MustBuild() *TryChain[T] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (st *buildState) build() (*chainCore, error) {
	if st.err != nil {
		return nil, st.err
	}
	if len(st.links) == 0 {
		return nil, &ConstructionError{Reason: "chain is empty"}
	}
	log := st.opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	links := make([]link, len(st.links))
	copy(links, st.links)
	return &chainCore{links: links, log: log}, nil
}
