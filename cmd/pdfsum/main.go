// Command pdfsum prints the text or a summary of a document.
//
//	pdfsum [-summarize] [-max-length N] [-min-length N] [-chunk-size N] file
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dgallion1/pdfsum/internal/config"
	"github.com/dgallion1/pdfsum/internal/tool"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	defaults := cfg.Defaults()

	fs := flag.NewFlagSet("pdfsum", flag.ContinueOnError)
	fs.SetOutput(stderr)
	doSummarize := fs.Bool("summarize", false, "summarize instead of printing the extracted text")
	maxLength := fs.Int("max-length", defaults.MaxLength, "maximum summary length per chunk, in model tokens")
	minLength := fs.Int("min-length", defaults.MinLength, "minimum summary length per chunk, in model tokens")
	chunkSize := fs.Int("chunk-size", defaults.ChunkSize, "characters per chunk")
	verbose := fs.Bool("v", false, "log to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: pdfsum [flags] file")
		fs.PrintDefaults()
		return 2
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	params := tool.Params{MaxLength: *maxLength, MinLength: *minLength, ChunkSize: *chunkSize}
	opts := []tool.Option{
		tool.WithLogger(log),
		tool.WithParserOptions(cfg.Parser()),
		tool.WithDefaults(params),
	}

	var out string
	if *doSummarize {
		if err := cfg.ValidateSummary(); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		t := tool.New(cfg.BackendFactory(nil), cfg.SummaryModel, opts...)
		defer t.Close()
		out = t.Summarize(ctx, fs.Arg(0), params)
	} else {
		// Extraction needs no backend.
		t := tool.New(nil, cfg.SummaryModel, append(opts, tool.WithLogger(slog.New(slog.DiscardHandler)))...)
		out = t.Run(fs.Arg(0))
	}

	if tool.IsErrorResult(out) {
		fmt.Fprintln(stderr, out)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}
