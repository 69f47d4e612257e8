// Command reddit-search-cli runs a keyword workbook through the Reddit search
// without the web server and writes the results workbook to disk.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/reddit-search-go/internal/core"
	"github.com/vrsandeep/reddit-search-go/internal/jobs"
	"github.com/vrsandeep/reddit-search-go/internal/models"
	"github.com/vrsandeep/reddit-search-go/internal/spreadsheet"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:   "reddit-search-cli",
		Short: "Search Reddit for every keyword in an Excel workbook",
	}
	rootCmd.AddCommand(searchCmd(), versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(core.Version)
		},
	}
}

func searchCmd() *cobra.Command {
	var output string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "search <keywords.xlsx>",
		Short: "Search every keyword in the workbook's Keyword column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("reddit_results_%s.xlsx", time.Now().Format(jobs.JobIDLayout))
			}
			return runSearch(cmd.Context(), args[0], output, quiet)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "path of the results workbook (default reddit_results_<timestamp>.xlsx)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the results table")
	return cmd
}

func runSearch(ctx context.Context, input, output string, quiet bool) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if !spreadsheet.AllowedExtension(input) {
		return fmt.Errorf("%s is not an Excel file (.xlsx or .xls)", input)
	}
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", input, err)
	}
	keywords, err := spreadsheet.ReadKeywords(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to read keywords: %w", err)
	}

	app, err := core.New()
	if err != nil {
		return err
	}
	defer app.Close()
	if !app.SearchConfigured() {
		return fmt.Errorf("%s %s", red("✗"), jobs.ErrSearcherUnavailable)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%s Searching %d keywords...\n", cyan("→"), len(keywords))
	results, err := app.Runner().Run(ctx, keywords)
	if err != nil {
		return fmt.Errorf("%s search failed: %w", red("✗"), err)
	}

	if !quiet {
		renderResults(results)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer out.Close()
	if err := spreadsheet.WriteResults(out, results); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("%s %d results written to %s\n", green("✓"), len(results), output)
	return nil
}

func renderResults(results []models.ResultRecord) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Keyword", "Title", "Subreddit", "Score", "Comments", "Created")

	for _, r := range results {
		title := r.Title
		if runes := []rune(title); len(runes) > 60 {
			title = string(runes[:57]) + "..."
		}
		table.Append(
			r.Keyword,
			title,
			r.Subreddit,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Comments),
			r.CreatedUTC,
		)
	}

	table.Render()
}
