package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `visual-match - find images, colors and text on screen and act on them

Usage:
  visual-match serve [--config FILE]
  visual-match match --script FILE [--frame IMAGE] [--name NAME] [--act]
                     [--annotate OUT] [--config FILE]

Commands:
  serve     Run the MCP tool server on stdin/stdout
  match     Run the templates of a script against one frame

Options:
  --version, -v    Print version information
  --help, -h       Print this help message

Without --frame, match grabs the configured display.

Environment variables:
  VISUAL_MATCH_LOG_LEVEL=debug          Log level (trace, debug, info, warn, error)
  VISUAL_MATCH_ACTUATOR_KIND=serial     dry_run, desktop or serial
  VISUAL_MATCH_ACTUATOR_PORT=/dev/ttyACM0
  Any other setting as VISUAL_MATCH_<SECTION>_<KEY>.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("visual-match %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		fmt.Print(usage)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "match":
		err = runMatch(ctx, os.Args[2:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("visual-match failed")
		os.Exit(1)
	}
}
