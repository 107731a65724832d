package main

import (
	"os"
	"strings"

	"github.com/dobriak/si-resize/upscale"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

func main() {

	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "si-resize"
	parser.Usage = "[OPTIONS] <input-path-or-directory>"
	_, err := parser.Parse()
	if err != nil {
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().
		Timestamp().
		Logger()

	// Tolerate shell-glob style invocations like "imgs/*".
	input := opts.Args.Input
	if strings.HasSuffix(input, "*") {
		input = strings.TrimRight(strings.TrimSuffix(input, "*"), "/\\")
	}

	if !upscale.IsSupported(opts.Model) {
		log.Fatal().Msgf("invalid model %q, supported models: %s",
			opts.Model, strings.Join(upscale.SupportedModels, ", "))
	}

	cfg := upscale.LoadConfig()
	full := upscale.FullReference(opts.Model)

	// Load once, before any file loop. Load failures are fatal regardless
	// of mode.
	model, err := upscale.NewHub(cfg).Load(opts.Model, full, opts.Scale)
	if err != nil {
		log.Fatal().Err(err).Str("model", full).Msg("cannot load model")
	}

	runner := &upscale.Runner{
		Model:   model,
		Scale:   opts.Scale,
		Suffix:  opts.UpscaleSuffix,
		Output:  opts.Output,
		Quality: cfg.JPEGQuality,
		Log:     log,
	}
	if err := runner.Run(input); err != nil {
		log.Fatal().Err(err).Msg("upscaling failed")
	}
}
