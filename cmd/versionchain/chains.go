package main

import (
	"context"
	"fmt"
	"sort"

	vc "github.com/reoring/versionchain"
	"github.com/reoring/versionchain/examples/person"
)

// runner is the type-erased view of a built chain the commands work with.
type runner struct {
	migrate  func(ctx context.Context, payload []byte) (any, error)
	resolver vc.Resolver
	versions []vc.VersionInfo
}

type chainFactory func(clock person.Clock, opt vc.ChainOpt) (runner, error)

var chains = map[string]chainFactory{
	// v1 -> v2, infallible.
	"person": func(clock person.Clock, opt vc.ChainOpt) (runner, error) {
		c, err := person.NewChain(clock, opt)
		if err != nil {
			return runner{}, err
		}
		return runner{migrate: erase(c), resolver: c, versions: c.Versions()}, nil
	},
	// v1 -> v2 -> v3, the last step requires a title.
	"person-v3": func(clock person.Clock, opt vc.ChainOpt) (runner, error) {
		c, err := person.NewTryChain(clock, opt)
		if err != nil {
			return runner{}, err
		}
		return runner{migrate: erase(c), resolver: c, versions: c.Versions()}, nil
	},
}

func erase[T any](m vc.Migrator[T]) func(context.Context, []byte) (any, error) {
	return func(ctx context.Context, payload []byte) (any, error) {
		v, err := m.TryMigrate(ctx, payload)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func chainNames() []string {
	out := make([]string, 0, len(chains))
	for k := range chains {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookupChain(name string, clock person.Clock, opt vc.ChainOpt) (runner, error) {
	f, ok := chains[name]
	if !ok {
		return runner{}, fmt.Errorf("unknown chain %q (want one of %v)", name, chainNames())
	}
	return f(clock, opt)
}
