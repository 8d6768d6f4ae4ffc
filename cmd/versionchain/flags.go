package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	vc "github.com/reoring/versionchain"
	"github.com/reoring/versionchain/codec"
	"github.com/reoring/versionchain/examples/person"
	"github.com/reoring/versionchain/i18n"
)

// Shared flags for every command.
var (
	ChainFlag = &cli.StringFlag{
		Name:    "chain",
		Aliases: []string{"c"},
		Usage:   "Chain to use: " + strings.Join(chainNames(), ", "),
		Value:   "person",
		EnvVars: []string{"VERSIONCHAIN_CHAIN"},
	}

	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Payload format: " + strings.Join(codec.Names(), ", "),
		Value:   "toml",
		EnvVars: []string{"VERSIONCHAIN_FORMAT"},
	}

	OutputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output format: json, yaml",
		Value:   "json",
	}

	LangFlag = &cli.StringFlag{
		Name:    "lang",
		Usage:   "Message language: en, ja",
		Value:   "en",
		EnvVars: []string{"VERSIONCHAIN_LANG"},
	}

	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every decode attempt and conversion step to stderr",
		EnvVars: []string{"VERSIONCHAIN_VERBOSE"},
	}

	NowFlag = &cli.StringFlag{
		Name:  "now",
		Usage: "RFC 3339 timestamp stamped by conversion steps (default: current time)",
	}

	InFlag = &cli.StringFlag{
		Name:    "in",
		Aliases: []string{"i"},
		Usage:   "Payload file (default: stdin)",
	}

	MaxBytesFlag = &cli.Int64Flag{
		Name:  "max-bytes",
		Usage: "Reject payloads larger than this many bytes (0 = unlimited)",
	}

	DuplicatesFlag = &cli.StringFlag{
		Name:  "duplicates",
		Usage: "Duplicate key policy: error, warn, ignore",
		Value: "error",
	}
)

// chainFlags returns the flags for commands that only inspect a chain.
func chainFlags() []cli.Flag {
	return []cli.Flag{ChainFlag, OutputFlag}
}

// payloadFlags returns the flags for commands that read a payload.
func payloadFlags() []cli.Flag {
	return []cli.Flag{
		ChainFlag,
		FormatFlag,
		OutputFlag,
		InFlag,
		LangFlag,
		VerboseFlag,
		NowFlag,
		MaxBytesFlag,
		DuplicatesFlag,
	}
}

// settings is the parsed, validated form of the flags.
type settings struct {
	chain    string
	format   string
	output   string
	in       string
	verbose  bool
	clock    person.Clock
	decode   codec.DecodeOpt
	language string
}

func parseSettings(c *cli.Context) (settings, error) {
	s := settings{
		chain:    c.String(ChainFlag.Name),
		format:   c.String(FormatFlag.Name),
		output:   strings.ToLower(c.String(OutputFlag.Name)),
		in:       c.String(InFlag.Name),
		verbose:  c.Bool(VerboseFlag.Name),
		language: c.String(LangFlag.Name),
		clock:    person.SystemClock,
	}
	if s.output != "json" && s.output != "yaml" {
		return s, fmt.Errorf("invalid --output %q (must be json or yaml)", s.output)
	}
	if now := c.String(NowFlag.Name); now != "" {
		t, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return s, fmt.Errorf("invalid --now: %w", err)
		}
		s.clock = person.FixedClock(t)
	}
	switch strings.ToLower(c.String(DuplicatesFlag.Name)) {
	case "", "error":
		s.decode.Strictness.OnDuplicateKey = vc.Error
	case "warn":
		s.decode.Strictness.OnDuplicateKey = vc.Warn
	case "ignore":
		s.decode.Strictness.OnDuplicateKey = vc.Ignore
	default:
		return s, fmt.Errorf("invalid --duplicates %q (must be error, warn or ignore)", c.String(DuplicatesFlag.Name))
	}
	s.decode.MaxBytes = c.Int64(MaxBytesFlag.Name)
	if s.language != "" {
		i18n.SetLanguage(s.language)
	}
	return s, nil
}
