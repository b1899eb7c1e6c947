package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/contentlens/analyzer"
	"github.com/seo-optimizer/contentlens/definitions"
	"github.com/seo-optimizer/contentlens/fetch"
	"github.com/seo-optimizer/contentlens/linkcheck"
	"github.com/seo-optimizer/contentlens/output"
	"github.com/seo-optimizer/contentlens/report"
)

const formatAll = "all"

type analyzeOptions struct {
	file       bool
	pageURL    string
	render     bool
	checkLinks bool
	format     string
	outputDir  string
	define     int
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <url|file>",
		Short: "Analyze a page and write the export files",
		Long: `Analyze fetches a page (or reads a saved HTML file), runs the content
analysis and writes the exports: seo-analysis.json, webpage-content.md,
seo-full-report.md and seo-full-report.pdf.

Examples:
  contentlens analyze https://example.com/blog/post
  contentlens analyze https://example.com --render --check-links
  contentlens analyze page.html --file --url https://example.com/page --format report
  contentlens analyze https://example.com --define 10 --output_dir ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.file, "file", false, "Treat the argument as a local HTML file")
	f.StringVar(&opts.pageURL, "url", "", "Page URL of a local file, used to classify links")
	f.BoolVar(&opts.render, "render", false, "Render the page in headless Chrome before analysis")
	f.BoolVar(&opts.checkLinks, "check-links", false, "Probe links and count broken ones")
	f.StringVar(&opts.format, "format", formatAll, "Export format: json, markdown, report, pdf or all")
	f.StringVar(&opts.outputDir, "output_dir", "", "Output directory (default: current directory)")
	f.IntVar(&opts.define, "define", 0, "Look up definitions for the top N keywords")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, target string, opts *analyzeOptions) error {
	renderers, err := selectRenderers(opts.format)
	if err != nil {
		return err
	}
	if opts.file && opts.render {
		return fmt.Errorf("--render cannot be combined with --file")
	}
	if opts.pageURL != "" {
		if err := analyzer.ValidateURL(opts.pageURL); err != nil {
			return err
		}
	}

	analyzerOpts := []analyzer.Option{
		analyzer.WithLogger(a.logger),
		analyzer.WithFetcher(fetch.NewHTTP(
			fetch.WithTimeout(a.cfg.FetchTimeout),
			fetch.WithUserAgent(a.cfg.UserAgent),
		)),
	}
	if opts.render {
		browser, err := fetch.NewBrowser()
		if err != nil {
			return err
		}
		defer browser.Close()
		analyzerOpts = append(analyzerOpts, analyzer.WithBrowserFetcher(browser))
	}
	if opts.checkLinks || a.cfg.CheckLinks {
		analyzerOpts = append(analyzerOpts, analyzer.WithLinkChecker(a.newLinkChecker()))
	}
	engine := analyzer.New(analyzerOpts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		r      *analyzer.Report
		outKey string
	)
	if opts.file {
		html, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading %s: %w", target, err)
		}
		r, err = engine.AnalyzeHTML(ctx, string(html), opts.pageURL)
		if err != nil {
			return err
		}
		outKey = opts.pageURL
		if outKey == "" {
			outKey = filepath.Base(target)
		}
	} else {
		r, err = engine.Analyze(ctx, target, opts.render)
		if err != nil {
			return err
		}
		outKey = target
	}

	writer, err := output.New(opts.outputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, renderer := range renderers {
		data, err := renderer.Render(r)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", renderer.Filename(), err)
		}
		path, err := writer.Write(outKey, renderer.Filename(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}

	if opts.define > 0 {
		path, err := a.writeDefinitions(ctx, r, writer, outKey, opts.define)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}

	rs := r.ReadabilityStats
	fmt.Fprintf(out, "Flesch Reading Ease: %d (%s), %d words\n", rs.FleschScore, rs.ReadingLevel, rs.WordCount)
	for _, rec := range analyzer.Recommend(r) {
		fmt.Fprintf(out, "- %s\n", rec)
	}
	return nil
}

func (a *app) newLinkChecker(extra ...linkcheck.Option) *linkcheck.Checker {
	opts := []linkcheck.Option{
		linkcheck.WithTimeout(a.cfg.LinkCheckTimeout),
		linkcheck.WithConcurrency(a.cfg.LinkCheckConcurrency),
		linkcheck.WithRPS(a.cfg.LinkCheckRPS),
		linkcheck.WithUserAgent(a.cfg.UserAgent),
		linkcheck.WithLogger(a.logger),
	}
	return linkcheck.New(append(opts, extra...)...)
}

func (a *app) writeDefinitions(ctx context.Context, r *analyzer.Report, writer *output.Writer, outKey string, n int) (string, error) {
	top := r.Keywords.Top(n)
	words := make([]string, len(top))
	for i, kw := range top {
		words[i] = kw.Word
	}

	client := definitions.NewClient(
		definitions.WithBaseURL(a.cfg.DictionaryURL),
		definitions.WithLogger(a.logger),
	)
	defs := client.LookupAll(ctx, definitions.NewCache(), words)

	data, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling definitions: %w", err)
	}
	return writer.Write(outKey, "definitions.json", data)
}

func selectRenderers(format string) ([]report.Renderer, error) {
	if format == formatAll {
		renderers := make([]report.Renderer, 0, len(report.Formats))
		for _, name := range report.Formats {
			r, err := report.ByFormat(name)
			if err != nil {
				return nil, err
			}
			renderers = append(renderers, r)
		}
		return renderers, nil
	}

	r, err := report.ByFormat(format)
	if err != nil {
		return nil, err
	}
	return []report.Renderer{r}, nil
}
