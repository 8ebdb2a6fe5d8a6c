package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cvBuilder/internal/errcode"
	"cvBuilder/internal/paginate"
	"cvBuilder/internal/templates"
)

type pageSummary struct {
	Page     int      `json:"page"`
	Units    int      `json:"units"`
	Height   float64  `json:"height"`
	Overflow bool     `json:"overflow,omitempty"`
	Sections []string `json:"sections"`
}

type paginateOutput struct {
	Template string            `json:"template"`
	Pages    []pageSummary     `json:"pages"`
	Warnings []errcode.Warning `json:"warnings,omitempty"`
}

func summarize(res *paginate.Result) []pageSummary {
	out := make([]pageSummary, 0, len(res.Pages))
	for _, p := range res.Pages {
		s := pageSummary{Page: p.Index, Units: len(p.Units), Height: p.Height, Overflow: p.Overflow}
		last := ""
		for _, pl := range p.Units {
			title := pl.Unit.SectionTitle
			if title == "" || title == last {
				continue
			}
			if pl.Continued {
				title += templates.ContinuedSuffix
			}
			s.Sections = append(s.Sections, title)
			last = pl.Unit.SectionTitle
		}
		out = append(out, s)
	}
	return out
}

func (c *CLI) paginateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "paginate",
		Short: "Lay the saved CV out into pages and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := c.rt.App.Load(ctx)
			if err != nil {
				return err
			}
			res, err := c.rt.App.Paginate(ctx, snap)
			if err != nil {
				return err
			}
			out := paginateOutput{Template: string(snap.Template), Pages: summarize(res), Warnings: res.Warnings}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			fmt.Fprintf(c.out, "%s: %d page(s)\n", out.Template, len(out.Pages))
			for _, p := range out.Pages {
				flag := ""
				if p.Overflow {
					flag = " (overflow)"
				}
				fmt.Fprintf(c.out, "  page %d: %d unit(s), %.0fpx%s  %s\n", p.Page, p.Units, p.Height, flag, strings.Join(p.Sections, " | "))
			}
			for _, w := range out.Warnings {
				fmt.Fprintf(c.out, "  warning %d: %s\n", w.Code, w.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func (c *CLI) renderCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write each page and the whole document as standalone HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := c.rt.App.Load(ctx)
			if err != nil {
				return err
			}
			res, err := c.rt.App.Paginate(ctx, snap)
			if err != nil {
				return err
			}
			head, err := templates.Head(snap.Preferences)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}

			pages := res.Markup()
			for i, page := range pages {
				doc, err := templates.Standalone(head, []string{page})
				if err != nil {
					return err
				}
				if err := writeFile(filepath.Join(outDir, fmt.Sprintf("cv_page_%d.html", i+1)), doc); err != nil {
					return err
				}
			}
			doc, err := templates.Standalone(head, pages)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(outDir, "cv_document.html"), doc); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "wrote %d page(s) to %s\n", len(pages), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
