// Command ocr2pdf converts an ordered list of images into a single searchable
// PDF: each page shows the original image full-bleed with the recognized text
// overlaid invisibly. Page order equals argument order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/wudi/ocrpdf/imagefile"
	"github.com/wudi/ocrpdf/observability"
	"github.com/wudi/ocrpdf/ocr"
	"github.com/wudi/ocrpdf/ocr/tesseract"
	"github.com/wudi/ocrpdf/pipeline"
)

type options struct {
	paths         []string
	language      string
	outPath       string
	timeout       time.Duration
	quiet         bool
	listLanguages bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocr2pdf: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "ocr2pdf: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ocr2pdf [flags] <image> [image ...]\n")
		flag.PrintDefaults()
	}
	lang := flag.String("lang", ocr.DefaultLanguage, "OCR language code (see -list-languages)")
	out := flag.String("out", "output.pdf", "Path of the PDF to write")
	timeout := flag.Duration("timeout", 0, "Abort the whole run after this duration (0 = no limit)")
	quiet := flag.Bool("quiet", false, "Suppress progress logging")
	list := flag.Bool("list-languages", false, "Print the supported language codes and exit")
	flag.Parse()

	opts.language = *lang
	opts.outPath = *out
	opts.timeout = *timeout
	opts.quiet = *quiet
	opts.listLanguages = *list
	opts.paths = flag.Args()

	if !opts.listLanguages && len(opts.paths) == 0 {
		flag.Usage()
		return options{}, fmt.Errorf("no input images")
	}
	return opts, nil
}

func run(opts options) error {
	if opts.listLanguages {
		for _, l := range ocr.Languages() {
			fmt.Printf("%-8s %s\n", l.Code, l.Name)
		}
		return nil
	}

	images := make([]imagefile.ImageFile, 0, len(opts.paths))
	for _, path := range opts.paths {
		f, err := imagefile.FromFile(path)
		if err != nil {
			return err
		}
		f, err = imagefile.Downscale(f)
		if err != nil {
			return err
		}
		images = append(images, f)
	}

	var logger observability.Logger = observability.NopLogger{}
	if !opts.quiet {
		logger = observability.NewTextLogger(os.Stderr)
	}
	notifier := pipeline.NotifierFunc(func(n pipeline.Notice) {
		fmt.Fprintf(os.Stderr, "ocr2pdf: %s\n", n.Message)
	})
	p := pipeline.New(tesseract.NewEngine(),
		pipeline.WithLogger(logger),
		pipeline.WithNotifier(notifier),
	)

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	// Ctrl-C requests cooperative cancellation; the in-flight image finishes
	// before the run stops.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sig:
			p.Cancel()
		case <-done:
		}
	}()

	out, err := p.Process(ctx, images, opts.language)
	if err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("run did not complete, no output written")
	}
	if err := os.WriteFile(opts.outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	snap := p.Snapshot()
	completed, failed := 0, 0
	for _, it := range snap.Items {
		switch it.Status {
		case pipeline.StatusCompleted:
			completed++
		case pipeline.StatusError:
			failed++
		}
	}
	if !opts.quiet {
		fmt.Fprintf(os.Stderr, "ocr2pdf: wrote %s (%d pages, %d failed)\n", opts.outPath, completed, failed)
	}
	return nil
}
