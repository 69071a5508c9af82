package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/kbsearch/core"
	"github.com/poiesic/kbsearch/reembed"
	"github.com/poiesic/kbsearch/search"
	"github.com/urfave/cli/v2"
)

func seedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("seed takes exactly one YAML file")
	}
	docs, err := readSeedFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	added, err := engine.Documents().AddDocuments(c.Context, docs...)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	out := c.App.Writer
	for _, doc := range added {
		fmt.Fprintf(out, "%6d  %-9s %s\n", doc.Id, doc.Status, doc.Title)
	}
	fmt.Fprintf(out, "Added %d documents\n", len(added))

	if !c.Bool("index") {
		return nil
	}
	run, err := engine.IndexStaleDocuments(c.Context)
	if run != nil {
		printRun(out, run)
	}
	return err
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search needs a query")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Search(c.Context, query)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	printResponse(c.App.Writer, resp)
	return nil
}

func indexCommand(c *cli.Context) error {
	selected := 0
	for _, name := range []string{"id", "all", "stale"} {
		if c.IsSet(name) {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("only one of --id, --all and --stale may be given")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	out := c.App.Writer
	if c.IsSet("id") {
		result, err := engine.IndexDocument(c.Context, core.ID(c.Uint64("id")))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Indexed document %d: %s\n", result.DocumentId, result.Title)
		return nil
	}

	var run *core.IndexRun
	if c.Bool("all") {
		run, err = engine.IndexAllDocuments(c.Context)
	} else {
		run, err = engine.IndexStaleDocuments(c.Context)
	}
	if run != nil {
		printRun(out, run)
	}
	return err
}

func statusCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	status, err := engine.IndexStatus(c.Context)
	if err != nil {
		return err
	}
	out := c.App.Writer
	if c.Bool("json") {
		return writeJSON(out, status)
	}

	fmt.Fprintf(out, "Model:      %s (configured: %t)\n", status.ModelId, status.Configured)
	fmt.Fprintf(out, "Approved:   %d\n", status.ApprovedCount)
	fmt.Fprintf(out, "Indexed:    %d\n", status.IndexedCount)
	fmt.Fprintf(out, "Pending:    %d\n", status.PendingCount)
	fmt.Fprintf(out, "Stale:      %d\n", status.StaleCount)
	if len(status.RecentlyIndexed) > 0 {
		fmt.Fprintln(out, "Recently indexed:")
		for _, doc := range status.RecentlyIndexed {
			fmt.Fprintf(out, "  %6d  %s  %s\n", doc.DocumentId, doc.IndexedAt.Local().Format(time.DateTime), doc.Title)
		}
	}
	if status.LastRun != nil {
		fmt.Fprint(out, "Last run:   ")
		printRun(out, status.LastRun)
	}
	return nil
}

func unindexCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	id := core.ID(c.Uint64("id"))
	if err := engine.Unindex(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed document %d from the index\n", id)
	return nil
}

func pruneCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	removed, err := engine.PruneOrphans(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed %d orphaned records\n", removed)
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}
	if reembedConfig.RetryDelay <= 0 {
		return fmt.Errorf("retry-delay must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	run, err := engine.Reembed(c.Context, reembedConfig, c.App.Writer)
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	for _, e := range run.Errors {
		fmt.Fprintf(c.App.Writer, "  document %d: %s\n", e.DocumentId, e.Message)
	}
	return nil
}

func printResponse(out io.Writer, resp *search.Response) {
	if !resp.Found {
		fmt.Fprintln(out, resp.Message)
		return
	}
	fmt.Fprintln(out, resp.Answer)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Sources:")
	for i, src := range resp.Sources {
		fmt.Fprintf(out, "  [%d] %s (%s) %d%%\n", i+1, src.Title, src.Category, src.SimilarityPercent)
		if src.ExcerptSnippet != "" {
			fmt.Fprintf(out, "      %s\n", src.ExcerptSnippet)
		}
	}
	if len(resp.Alternatives) > 0 {
		fmt.Fprintln(out, "See also:")
		for _, alt := range resp.Alternatives {
			fmt.Fprintf(out, "  - %s (%s)\n", alt.Title, alt.Category)
		}
	}
}

func printRun(out io.Writer, run *core.IndexRun) {
	fmt.Fprintf(out, "Indexed %d/%d documents with %s (%d failed) in %s\n",
		run.Indexed, run.Total, run.ModelId, run.Failed,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	for _, e := range run.Errors {
		fmt.Fprintf(out, "  document %d: %s\n", e.DocumentId, e.Message)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
