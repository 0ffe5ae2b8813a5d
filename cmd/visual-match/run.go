package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/visual-match/internal/actuator"
	"github.com/ironsheep/visual-match/internal/capture"
	"github.com/ironsheep/visual-match/internal/config"
	"github.com/ironsheep/visual-match/internal/imaging"
	"github.com/ironsheep/visual-match/internal/logging"
	"github.com/ironsheep/visual-match/internal/matcher"
	"github.com/ironsheep/visual-match/internal/ocr"
	"github.com/ironsheep/visual-match/internal/server"
)

// setup loads configuration, configures logging and registers the OCR
// provider.
func setup(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return nil, err
	}
	ocr.DefaultRegistry.Add(&ocr.Tesseract{Language: cfg.OCR.Language, Lines: cfg.OCR.Lines})
	return cfg, nil
}

// openActuator builds the configured actuator. The returned close function
// is never nil.
func openActuator(cfg *config.Config) (matcher.Actuator, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Actuator.Kind {
	case config.ActuatorDesktop:
		d := actuator.Desktop{Button: cfg.Actuator.Button}
		origin, err := capture.DisplayOrigin(cfg.Capture.Display)
		switch {
		case err == nil:
			d.Origin = origin
		case cfg.Capture.Display != 0:
			return nil, noop, err
		}
		return d, noop, nil
	case config.ActuatorSerial:
		s, err := actuator.OpenSerial(cfg.Actuator.Port, cfg.Actuator.Baud, cfg.Actuator.ReadTimeout)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return &actuator.Recorder{}, noop, nil
	}
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*configPath)
	if err != nil {
		return err
	}
	act, closeAct, err := openActuator(cfg)
	if err != nil {
		return err
	}
	defer closeAct()

	policy, _ := matcher.ParsePointGenerator(cfg.Press.Policy)
	log.Info().Str("version", Version).Str("actuator", cfg.Actuator.Kind).Msg("Starting tool server")

	srv := server.New(server.Options{
		OCR:           ocr.DefaultRegistry,
		Actuator:      act,
		Policy:        policy,
		PressDuration: cfg.Press.Duration,
		Version:       Version,
	})
	return srv.Run(ctx)
}

// runMatch runs every template of a script (or just --name) against one
// frame and prints one line per template.
func runMatch(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	scriptPath := fs.String("script", "", "template script (YAML, JSON or TOML)")
	framePath := fs.String("frame", "", "frame image; grabs the screen when empty")
	name := fs.String("name", "", "run only this template")
	act := fs.Bool("act", false, "press every match on the configured actuator")
	annotate := fs.String("annotate", "", "write the frame with matches marked to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := setup(*configPath)
	if err != nil {
		return err
	}
	if *scriptPath == "" {
		*scriptPath = cfg.Script
	}
	if *scriptPath == "" {
		return fmt.Errorf("match: --script is required")
	}

	cache := imaging.NewImageCache()
	script, err := matcher.LoadScript(*scriptPath, matcher.Deps{Cache: cache, OCR: ocr.DefaultRegistry})
	if err != nil {
		return err
	}

	names := script.Names()
	if *name != "" {
		if _, ok := script.Templates[*name]; !ok {
			return fmt.Errorf("match: script has no template %q", *name)
		}
		names = []string{*name}
	}

	var src capture.Source = capture.Screen{Display: cfg.Capture.Display}
	if *framePath != "" {
		src = capture.File{Path: *framePath}
	}
	frame, err := src.Frame(ctx)
	if err != nil {
		return err
	}

	var actuatorImpl matcher.Actuator
	if *act {
		a, closeAct, err := openActuator(cfg)
		if err != nil {
			return err
		}
		defer closeAct()
		actuatorImpl = a
	}
	policy, _ := matcher.ParsePointGenerator(cfg.Press.Policy)

	var marks []imaging.Mark
	for _, n := range names {
		res, err := script.Templates[n].Match(ctx, frame)
		if err != nil {
			return fmt.Errorf("template %q: %w", n, err)
		}
		fmt.Fprintf(out, "%s: %s\n", n, res)

		if mark, ok := markFor(n, res); ok {
			marks = append(marks, mark)
		}
		if actuatorImpl != nil {
			if _, err := res.Act(ctx, actuatorImpl, cfg.Press.Duration, policy); err != nil {
				return fmt.Errorf("template %q: %w", n, err)
			}
		}
	}

	if *annotate != "" {
		if err := imaging.Save(*annotate, imaging.Annotate(frame, marks)); err != nil {
			return err
		}
		log.Info().Str("path", *annotate).Int("marks", len(marks)).Msg("Annotated frame written")
	}
	return nil
}

// markFor labels a match with the template name, plus the score for image
// matches.
func markFor(name string, res matcher.Result) (imaging.Mark, bool) {
	switch m := res.(type) {
	case matcher.RectMatch:
		return imaging.Mark{Rect: m.Rect, Label: fmt.Sprintf("%s %.2f", name, m.Score)}, true
	case matcher.PointMatch:
		return imaging.Mark{Rect: imaging.Rect{X: m.Point.X, Y: m.Point.Y}, Label: name}, true
	}
	return imaging.Mark{}, false
}
