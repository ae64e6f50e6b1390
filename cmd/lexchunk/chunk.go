package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/lexchunk/internal/chunker"
	"github.com/dgallion1/lexchunk/internal/parser"
)

type chunkOptions struct {
	outDir    string
	stdout    bool
	jobs      int
	pdftotext bool
	verbose   bool
	th        chunker.Thresholds
}

func chunkCmd() *cobra.Command {
	opts := chunkOptions{th: chunker.DefaultThresholds()}

	cmd := &cobra.Command{
		Use:   "chunk <file>...",
		Short: "Segment documents and write their chunks as JSON",
		Long: `Segment each file and write its chunks as a JSON array of strings.

Output for path/to/cpc.pdf goes to path/to/cpc.pdf.chunks.json, or into
--out-dir when set. With --stdout a single file's chunks are printed instead.

Supported formats: .txt, .md, .markdown, .html, .htm, .pdf, .docx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.stdout && len(args) > 1 {
				return fmt.Errorf("--stdout takes exactly one file, got %d", len(args))
			}
			return runChunk(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.outDir, "out-dir", "", "Directory for .chunks.json files (default: next to each input)")
	f.BoolVar(&opts.stdout, "stdout", false, "Print chunks to stdout instead of writing a file")
	f.IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Files to segment concurrently")
	f.BoolVar(&opts.pdftotext, "pdftotext", true, "Retry failed PDF extraction with pdftotext")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log segmentation decisions to stderr")
	f.IntVar(&opts.th.MinChunkSize, "min-chunk-size", opts.th.MinChunkSize, "Merge chunks smaller than this many characters")
	f.IntVar(&opts.th.MaxChunkSize, "max-chunk-size", opts.th.MaxChunkSize, "Soft ceiling for a chunk, in characters")
	f.IntVar(&opts.th.RuleSplitThreshold, "rule-split-threshold", opts.th.RuleSplitThreshold, "Split ORDERs longer than this by Rule")
	f.IntVar(&opts.th.FallbackChunkSize, "fallback-chunk-size", opts.th.FallbackChunkSize, "Paragraph bound for unstructured text")
	f.IntVar(&opts.th.NoiseFloor, "noise-floor", opts.th.NoiseFloor, "Drop preamble and appendix spans at or below this size")

	return cmd
}

func runChunk(cmd *cobra.Command, files []string, opts chunkOptions) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ch, err := chunker.New(opts.th, log)
	if err != nil {
		return err
	}
	popts := parser.Options{PDFFallbackPdftotext: opts.pdftotext}

	results := make([][]string, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			chunks, err := chunkFile(ctx, ch, path, popts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.stdout {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results[0])
	}
	for i, path := range files {
		dst := outputPath(path, opts.outDir)
		if err := writeChunks(dst, results[i]); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d chunks -> %s\n", path, len(results[i]), dst)
	}
	return nil
}

func chunkFile(ctx context.Context, ch *chunker.Chunker, path string, opts parser.Options) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parser.ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return ch.Segment(doc.Text), nil
}

func outputPath(path, outDir string) string {
	name := filepath.Base(path) + ".chunks.json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, name)
}

func writeChunks(dst string, chunks []string) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, append(data, '\n'), 0o644)
}
