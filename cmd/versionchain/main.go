// Command versionchain migrates serialized person records to their newest
// version.
//
// Usage:
//
//	versionchain migrate  [--chain person] [--format toml] [--in file]
//	versionchain resolve  [--chain person] [--format toml] [--in file]
//	versionchain versions [--chain person]
//
// Exit codes:
//   - 0: success
//   - 1: no version matched the payload
//   - 2: a conversion step failed
//   - 3: usage or I/O error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	exitSuccess          = 0
	exitNoVersionMatched = 1
	exitConversionFailed = 2
	exitUsage            = 3
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	app.ExitErrHandler = exitErrHandler
	if err := app.Run(os.Args); err != nil {
		os.Exit(exitUsage)
	}
	os.Exit(exitSuccess)
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "versionchain",
		Usage:     "Resolve and migrate versioned payloads",
		Version:   "0.1.0",
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Commands: []*cli.Command{
			migrateCommand(),
			resolveCommand(),
			versionsCommand(),
		},
	}
}

// exitErrHandler handles errors from the CLI, respecting cli.ExitCoder.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		// cli.Exit("", N).Error() returns "exit status N", skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(c.App.ErrWriter, msg)
		}
		os.Exit(code)
	}
	fmt.Fprintf(c.App.ErrWriter, "Error: %v\n", err)
	os.Exit(exitUsage)
}
