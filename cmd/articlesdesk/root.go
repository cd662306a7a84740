package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"ArticlesDesk/internal/app"
	"ArticlesDesk/internal/config"
	"ArticlesDesk/internal/logging"
	"ArticlesDesk/internal/page"
)

var (
	version = "dev"
	commit  = "none"
)

type rootFlags struct {
	config   string
	baseURL  string
	logLevel string
	dumpHTML bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "articlesdesk",
		Short:         "Browse, search and upload documents in an article catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "path to YAML config file (default $ARTICLES_DESK_CONFIG)")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "catalog origin, e.g. http://localhost:28100")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flags.dumpHTML, "html", false, "print the resulting page HTML")

	root.AddCommand(
		newHomeCmd(flags),
		newSearchCmd(flags),
		newUploadCmd(flags),
		newViewCmd(flags),
		newVersionCmd(),
	)
	return root
}

func (f *rootFlags) loadConfig() config.Config {
	var cfg config.Config
	if f.config != "" {
		cfg = config.LoadFile(f.config)
	} else {
		cfg = config.Load()
	}
	if f.baseURL != "" {
		cfg.Catalog.BaseURL = f.baseURL
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	return cfg
}

func (f *rootFlags) newApp(cmd *cobra.Command) (*app.Application, error) {
	cfg := f.loadConfig()
	logger := logging.New(cfg.Logging.Level, cmd.ErrOrStderr())
	return app.New(cfg, logger, app.Options{})
}

func (f *rootFlags) maybeDumpHTML(w io.Writer, p *page.Page) error {
	if !f.dumpHTML {
		return nil
	}
	out, err := p.HTML()
	if err != nil {
		return fmt.Errorf("serialize page: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// printList writes one line per list item: "title<TAB>href" for links, the text otherwise.
func printList(w io.Writer, heading string, p *page.Page, list *goquery.Selection) {
	var lines []string
	p.Do(func(*goquery.Document) {
		list.Children().Each(func(_ int, li *goquery.Selection) {
			link := li.Find("a").First()
			if link.Length() == 0 {
				lines = append(lines, strings.TrimSpace(li.Text()))
				return
			}
			href, _ := link.Attr("href")
			lines = append(lines, strings.TrimSpace(link.Text())+"\t"+href)
		})
	})

	fmt.Fprintf(w, "%s:\n", heading)
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "articlesdesk %s (commit: %s)\n", version, commit)
		},
	}
}
