package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	vc "github.com/reoring/versionchain"
	"github.com/reoring/versionchain/codec"
)

// ResolveResponse is the output of the resolve command.
type ResolveResponse struct {
	Version string `json:"version" yaml:"version"`
	Index   int    `json:"index" yaml:"index"`
	Newest  string `json:"newest" yaml:"newest"`
}

// VersionResponse is one entry of the versions command output.
type VersionResponse struct {
	Index    int    `json:"index" yaml:"index"`
	Name     string `json:"name" yaml:"name"`
	Fallible bool   `json:"fallible" yaml:"fallible"`
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Decode a payload of any known version and print it as the newest version",
		Flags:  payloadFlags(),
		Action: migrateAction,
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:   "resolve",
		Usage:  "Print which version a payload encodes",
		Flags:  payloadFlags(),
		Action: resolveAction,
	}
}

func versionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "versions",
		Usage:  "List the versions of a chain, oldest first",
		Flags:  chainFlags(),
		Action: versionsAction,
	}
}

// session carries what a payload command needs after flag parsing.
type session struct {
	s       settings
	r       runner
	log     *zap.Logger
	payload []byte
}

func openSession(c *cli.Context) (*session, error) {
	s, err := parseSettings(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	log := newLogger(c.App.ErrWriter, s.verbose)
	s.decode.Sink = func(it vc.Issue) {
		log.Warn("decode issue",
			zap.String("code", it.Code),
			zap.String("path", it.Path),
			zap.String("detail", it.Message),
		)
	}
	f, err := codec.ByName(s.format, s.decode)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	r, err := lookupChain(s.chain, s.clock, vc.ChainOpt{Format: f, Logger: log})
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	payload, err := readPayload(c.App.Reader, s.in)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitUsage)
	}
	return &session{s: s, r: r, log: log, payload: payload}, nil
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, errors.New("no payload: stdin is not available")
		}
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return b, nil
}

func migrateAction(c *cli.Context) error {
	sess, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { _ = sess.log.Sync() }()

	v, err := sess.r.migrate(c.Context, sess.payload)
	if err != nil {
		return migrationExit(err)
	}
	return render(c.App.Writer, sess.s.output, v)
}

func resolveAction(c *cli.Context) error {
	sess, err := openSession(c)
	if err != nil {
		return err
	}
	defer func() { _ = sess.log.Sync() }()

	res, err := sess.r.resolver.Resolve(c.Context, sess.payload)
	if err != nil {
		return migrationExit(err)
	}
	return render(c.App.Writer, sess.s.output, ResolveResponse{
		Version: res.Version,
		Index:   res.Index,
		Newest:  vc.Current(sess.r.versions).Name,
	})
}

func versionsAction(c *cli.Context) error {
	output := c.String(OutputFlag.Name)
	if output != "json" && output != "yaml" {
		return cli.Exit(fmt.Sprintf("invalid --output %q (must be json or yaml)", output), exitUsage)
	}
	r, err := lookupChain(c.String(ChainFlag.Name), nil, vc.ChainOpt{Format: codec.JSON()})
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	out := make([]VersionResponse, 0, len(r.versions))
	for _, v := range r.versions {
		out = append(out, VersionResponse{Index: v.Index, Name: v.Name, Fallible: v.Fallible})
	}
	return render(c.App.Writer, output, out)
}

// migrationExit maps a MigrationError category to its exit code.
func migrationExit(err error) error {
	switch {
	case errors.Is(err, vc.ErrNoVersionMatched):
		return cli.Exit(err.Error(), exitNoVersionMatched)
	case errors.Is(err, vc.ErrConversionFailed):
		return cli.Exit(err.Error(), exitConversionFailed)
	default:
		return cli.Exit(err.Error(), exitUsage)
	}
}

func render(w io.Writer, output string, v any) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := j.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
