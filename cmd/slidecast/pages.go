package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/slidecast/internal/catalog"
	"github.com/muurk/slidecast/internal/logging"
	"github.com/muurk/slidecast/internal/ui"
)

// captionFetchLimit bounds concurrent caption requests
const captionFetchLimit = 4

func init() {
	pagesCmd.Flags().StringVarP(&serverURL, "server", "s", "", "Presentation server URL (default from config)")
	rootCmd.AddCommand(pagesCmd)
}

// pagesCmd lists the deck without opening the viewer
var pagesCmd = &cobra.Command{
	Use:   "pages [server-url]",
	Short: "List the pages of a presentation",
	Long: `Fetch the page catalog of a presentation server and print each page
with its type and caption.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPages,
}

func runPages(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("server") {
		cfg.Server = serverURL
	}
	if len(args) == 1 {
		cfg.Server = args[0]
	}
	ctx := cmd.Context()
	if _, err := resolveServer(ctx); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := catalog.NewClient(cfg.Server)
	client.SetTimeout(cfg.RequestTimeout)

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Pages", "slidecast pages", ui.Field{Key: "Server", Value: cfg.Server})
	p.Newline()

	pages, err := client.FetchAll(ctx)
	if err != nil {
		p.PrintFailure("Cannot load the page catalog", catalog.ShortMessage(err), catalogTips(err))
		return fmt.Errorf("failed to fetch pages: %w", err)
	}

	// A missing caption is not an error; the page is listed without one.
	captions := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(captionFetchLimit)
	for i := range pages {
		g.Go(func() error {
			label, err := client.FetchLabel(gctx, i)
			if err != nil {
				logging.Debug("No caption", zap.Int("index", i), zap.Error(err))
				return nil
			}
			captions[i] = label
			return nil
		})
	}
	_ = g.Wait()

	items := make([]ui.Item, len(pages))
	for i, page := range pages {
		fields := []ui.Field{{Key: "Type", Value: page.Type.String()}}
		if captions[i] != "" {
			fields = append(fields, ui.Field{Key: "Caption", Value: captions[i]})
		}
		items[i] = ui.Item{Title: fmt.Sprintf("Slide %d/%d", i+1, len(pages)), Fields: fields}
	}
	p.PrintList(items)
	p.PrintSuccess(fmt.Sprintf("%d page(s)", len(pages)))
	return nil
}

// catalogTips suggests what to check after a failed catalog request.
func catalogTips(err error) []string {
	switch {
	case catalog.IsNetworkError(err):
		return []string{
			"Check that the presentation server is running",
			"Check the server URL and port",
			"Run 'slidecast scan' to find servers on the network",
		}
	case catalog.IsHTTPError(err):
		return []string{
			"No deck is served at this address",
			"Use the server root URL, not a page URL",
		}
	case catalog.IsParseError(err):
		return []string{"This does not look like a slidecast server"}
	default:
		return []string{"Run 'slidecast scan' to find servers on the network"}
	}
}
