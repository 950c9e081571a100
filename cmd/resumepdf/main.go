package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/blockedby/resumekit/internal/logger"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/render"
)

type options struct {
	template   int
	input      string
	photo      string
	out        string
	thumbnail  string
	thumbWidth int
	assets     string
	fonts      string
	date       string
	strict     bool
	list       bool
	logLevel   string
}

func main() {
	var o options
	pflag.IntVarP(&o.template, "template", "t", 1, "Template id (1 Grid, 2 Banner, 3 Sidebar)")
	pflag.StringVarP(&o.input, "input", "i", "", "Resume data as YAML or JSON, - for stdin")
	pflag.StringVarP(&o.photo, "photo", "p", "", "Photo file (png, jpeg, gif, webp, bmp)")
	pflag.StringVarP(&o.out, "out", "o", "resume.pdf", "Output PDF, - for stdout")
	pflag.StringVar(&o.thumbnail, "thumbnail", "", "Also write a PNG thumbnail to this path")
	pflag.IntVar(&o.thumbWidth, "thumb-width", render.DefaultThumbnailWidth, "Thumbnail width in pixels")
	pflag.StringVar(&o.assets, "assets", os.Getenv("ASSETS_DIR"), "Directory with decorative assets")
	pflag.StringVar(&o.fonts, "fonts", os.Getenv("FONTS_DIR"), "Directory with extra .ttf/.otf fonts")
	pflag.StringVar(&o.date, "date", "", "Document date (RFC 3339) for reproducible output")
	pflag.BoolVar(&o.strict, "strict", false, "Refuse to render resumes that fail validation")
	pflag.BoolVar(&o.list, "list", false, "List templates and exit")
	pflag.StringVar(&o.logLevel, "log-level", "warn", "Log level")
	pflag.Parse()

	if err := run(context.Background(), o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "resumepdf:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, stdin io.Reader, stdout io.Writer) error {
	log, err := logger.New(o.logLevel, "")
	if err != nil {
		return err
	}

	opts, _, err := render.DirOptions(o.assets, o.fonts)
	if err != nil {
		return err
	}
	opts = append(opts, render.WithLogger(log.Component("render")))
	if o.date != "" {
		at, err := time.Parse(time.RFC3339, o.date)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		opts = append(opts, render.WithClock(func() time.Time { return at }))
	}
	engine := render.New(opts...)

	if o.list {
		for _, t := range engine.Templates() {
			fmt.Fprintf(stdout, "%d\t%s\n", t.ID(), t.Name())
		}
		return nil
	}

	if o.input == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := readInput(o.input, stdin)
	if err != nil {
		return err
	}
	resume, err := models.ParseResume(data)
	if err != nil {
		return err
	}
	if err := resume.Validate(); err != nil {
		if o.strict {
			return fmt.Errorf("invalid resume:\n%w", err)
		}
		log.Warn().Err(err).Msg("resume has problems, rendering anyway")
	}

	var photo []byte
	if o.photo != "" {
		if photo, err = os.ReadFile(o.photo); err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
	}
	img, err := decodePhoto(photo)
	if err != nil {
		return err
	}

	doc, err := engine.Render(ctx, o.template, resume, img)
	if err != nil {
		return err
	}
	for _, d := range doc.Diagnostics {
		log.Info().Str("kind", string(d.Kind)).Str("name", d.Name).Msg("fallback used")
	}
	if err := writeOutput(o.out, doc.PDF, stdout); err != nil {
		return err
	}

	if o.thumbnail != "" {
		png, err := engine.Thumbnail(ctx, o.template, resume, img, o.thumbWidth, 0)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.thumbnail, png, 0644); err != nil {
			return fmt.Errorf("write thumbnail: %w", err)
		}
	}
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func decodePhoto(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return models.DecodePhoto(data)
}
