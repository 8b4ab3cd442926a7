package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
	"github.com/woozymasta/geolayers/internal/hittest"
	"github.com/woozymasta/geolayers/internal/logger"
	"github.com/woozymasta/geolayers/internal/raster"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config" env:"CONFIG_FILE" description:"Optional configuration file for style defaults"`
	Inputs     []string `short:"i" long:"input"  env:"INPUT_FILES" description:"GeoJSON document to render, repeatable" required:"true"`
	Output     string   `short:"o" long:"output" env:"OUTPUT_FILE" description:"Output webp file" default:"preview.webp"`
	Width      int      `short:"W" long:"width"  description:"Image width"  default:"1024"`
	Height     int      `short:"H" long:"height" description:"Image height" default:"768"`
	Hit        string   `long:"hit" description:"Probe point as lat,lon; matched polygons are logged"`
	Tolerance  float64  `long:"tol" description:"Bounding-box slack for the hit probe" default:"0"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	var style config.Style
	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		style = cfg.Style
	}

	// All inputs accumulate into one combined set of layers
	p := geojson.New(geojson.Options{Style: style})
	for _, path := range opts.Inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read document")
		}

		diag, err := p.Parse(data)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to parse document")
		}

		for _, fe := range diag.Malformed {
			log.Warn().
				Str("path", path).
				Int("feature", fe.Index).
				Str("type", fe.Kind).
				Err(fe.Err).
				Msg("Malformed feature skipped")
		}

		log.Info().
			Str("path", path).
			Int("features", diag.Features).
			Int("skipped", diag.Skipped).
			Msg("Document parsed")
	}

	if opts.Hit != "" {
		probe(p, opts.Hit, opts.Tolerance)
	}

	err := raster.WriteFile(opts.Output, p, raster.Options{
		Width:  opts.Width,
		Height: opts.Height,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write preview")
	}

	log.Info().
		Str("path", opts.Output).
		Int("markers", len(p.Markers)).
		Int("polylines", len(p.Polylines)).
		Int("polygons", len(p.Polygons)).
		Msg("Preview written")
}

// probe runs a single hit test against the parsed polygons and logs the
// outcome.
func probe(p *geojson.Parser, spec string, tolerance float64) {
	parts := strings.SplitN(spec, ",", 2)
	if len(parts) != 2 {
		log.Fatal().Str("hit", spec).Msg("Probe point must be lat,lon")
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		log.Fatal().Str("hit", spec).Msg("Probe point must be lat,lon")
	}

	tester := hittest.New(p.Polygons)
	matched := tester.Hit(geo.Point{Lat: lat, Lon: lon}, tolerance)

	if len(matched) == 0 {
		log.Info().Float64("lat", lat).Float64("lon", lon).Msg("Probe hit nothing")
		return
	}

	for _, poly := range matched {
		log.Info().
			Float64("lat", lat).
			Float64("lon", lon).
			Str("tag", poly.Tag).
			Int("outer_points", len(poly.Outer)).
			Int("holes", len(poly.Holes)).
			Interface("properties", poly.Props).
			Msg("Probe hit polygon")
	}
}
