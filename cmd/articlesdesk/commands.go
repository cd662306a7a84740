package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ArticlesDesk/internal/app"
	"ArticlesDesk/internal/controller"
	"ArticlesDesk/internal/copybutton"
	"ArticlesDesk/internal/infrastructure/scheduler"
)

func openHome(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (*app.Application, *app.Session, error) {
	application, err := flags.newApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	session, err := application.Open(ctx, "/")
	if err != nil {
		return nil, nil, err
	}
	if session.MountErr != nil {
		return nil, nil, session.MountErr
	}
	if _, ok := session.Home(); !ok {
		return nil, nil, fmt.Errorf("landing page resolved to %q, not the listing page", session.Variant)
	}
	return application, session, nil
}

func newHomeCmd(flags *rootFlags) *cobra.Command {
	var watch time.Duration

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show recommended and random articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, session, err := openHome(ctx, cmd, flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			show := func() {
				p := session.Page
				printList(out, "Recommended", p, p.Find("#"+controller.IDRecommended))
				printList(out, "Random", p, p.Find("#"+controller.IDRandom))
			}

			if watch <= 0 {
				show()
				return flags.maybeDumpHTML(out, session.Page)
			}

			first := true
			ticker := scheduler.NewIntervalScheduler(watch)
			if err := ticker.Start(ctx, func(at time.Time) {
				if !first {
					application.Refresh(ctx, session)
					fmt.Fprintf(out, "-- refreshed %s\n", at.Format(time.TimeOnly))
				}
				first = false
				show()
			}); err != nil {
				return err
			}

			<-ctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ticker.Stop(stopCtx)
		},
	}
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh the lists at this interval until interrupted")
	return cmd
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search articles by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, session, err := openHome(ctx, cmd, flags)
			if err != nil {
				return err
			}

			p := session.Page
			p.SetValue(p.Find("#"+controller.IDSearchQuery), strings.Join(args, " "))
			p.Submit(ctx, p.Find("#"+controller.IDSearchForm))

			printList(cmd.OutOrStdout(), "Results", p, p.Find("#"+controller.IDSearchResults))
			return flags.maybeDumpHTML(cmd.OutOrStdout(), p)
		},
	}
}

func newUploadCmd(flags *rootFlags) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an HTML document to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			_, session, err := openHome(ctx, cmd, flags)
			if err != nil {
				return err
			}

			p := session.Page
			form := p.Find("#" + controller.IDUploadForm)
			fileInput := form.Find(`input[type="file"]`).First()
			if fileInput.Length() == 0 {
				return errors.New("upload form has no file input")
			}
			p.AttachFile(fileInput, filepath.Base(args[0]), content)

			for _, kv := range fields {
				name, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --field %q, want name=value", kv)
				}
				input := form.Find(fmt.Sprintf("[name=%q]", name)).First()
				if input.Length() == 0 {
					return fmt.Errorf("upload form has no field %q", name)
				}
				p.SetValue(input, value)
			}

			p.Submit(ctx, form)

			status := p.Text(p.Find("#" + controller.IDUploadStatus))
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if err := flags.maybeDumpHTML(cmd.OutOrStdout(), p); err != nil {
				return err
			}
			if status != controller.StatusUploaded {
				return errors.New(status)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra form field as name=value (repeatable)")
	return cmd
}

func newViewCmd(flags *rootFlags) *cobra.Command {
	var copyIndex int

	cmd := &cobra.Command{
		Use:   "view PATH",
		Short: "Open a document page, list related documents and copy code blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			application, err := flags.newApp(cmd)
			if err != nil {
				return err
			}
			session, err := application.Open(ctx, args[0])
			if err != nil {
				return err
			}

			if session.MountErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", session.MountErr)
			}

			out := cmd.OutOrStdout()
			p := session.Page
			buttons := p.Find("pre > button." + copybutton.ButtonClass)
			fmt.Fprintf(out, "Code blocks: %d\n", buttons.Length())

			if article, ok := session.Article(); ok {
				if article.RelatedVisible() {
					printList(out, "Related", p, article.RelatedList())
				} else {
					fmt.Fprintln(out, "Related: hidden")
				}
			}

			if copyIndex > 0 {
				if copyIndex > buttons.Length() {
					return fmt.Errorf("no code block #%d (page has %d)", copyIndex, buttons.Length())
				}
				btn := buttons.Eq(copyIndex - 1)
				p.Click(ctx, btn)
				fmt.Fprintf(out, "Code block #%d: %s\n", copyIndex, p.Text(btn))
			}

			return flags.maybeDumpHTML(out, p)
		},
	}
	cmd.Flags().IntVar(&copyIndex, "copy", 0, "copy the Nth code block (1-based) to the clipboard")
	return cmd
}
