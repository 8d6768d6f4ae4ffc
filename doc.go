// Package versionchain provides:
//
// - Resolution of a serialized payload of unknown schema version by trying
// every known version from newest to oldest (first success wins)
// - Forward migration of the resolved value through an ordered chain of
// conversion steps up to the current version
// - One error surface (MigrationError) for both "no version matched" and
// "conversion failed at step i"
//
// Design policy:
// - Keep only public APIs in the root package; put helpers under internal/.
// - Formats (JSON/YAML/TOML/MessagePack) live under codec/, the CLI under
// cmd/versionchain, HTTP request body migration under middleware/, fixtures
// under examples/.
// - A chain is built once (usually as a package-level variable) and is
// immutable and safe for concurrent use afterwards.
//
// Typical usage:
//
//	chain := versionchain.Then(
//		versionchain.Start(versionchain.V[PersonV1]("v1"), versionchain.ChainOpt{Format: codec.TOML()}),
//		versionchain.V[PersonV2]("v2"),
//		func(ctx context.Context, p PersonV1) PersonV2 { return PersonV2{Name: p.Name} },
//	).MustBuild()
//
//	p, err := chain.Migrate(ctx, payload)
package versionchain
