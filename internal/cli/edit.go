package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cvBuilder/internal/app"
	"cvBuilder/internal/resume"
	"cvBuilder/internal/templates"
)

func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved CV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.rt.App.Load(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "name\t%s\n", snap.Name)
			fmt.Fprintf(w, "job title\t%s\n", snap.JobTitle)
			fmt.Fprintf(w, "template\t%s\n", snap.Template)
			fmt.Fprintf(w, "theme\t%s\n", templates.ResolveTheme(snap.Preferences).ID)
			fmt.Fprintf(w, "font\t%s %d%%\n", snap.Typography.FontFamily, snap.Typography.FontSize)
			fmt.Fprintf(w, "experience\t%d\n", len(snap.Experience))
			fmt.Fprintf(w, "education\t%d\n", len(snap.Education))
			fmt.Fprintf(w, "skills\t%d\n", len(snap.Skills))
			fmt.Fprintf(w, "languages\t%d\n", len(snap.Languages))
			fmt.Fprintf(w, "projects\t%d\n", len(snap.Projects))
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	return cmd
}

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the saved CV with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			snap, err := resume.Decode(raw)
			if err != nil {
				return err
			}
			_, res, err := c.rt.App.Update(cmd.Context(), snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "imported %s: %d page(s)\n", args[0], len(res.Pages))
			return nil
		},
	}
}

func (c *CLI) setCommand() *cobra.Command {
	var (
		template  string
		theme     string
		color     string
		font      string
		fontSize  int
		textColor string
		photo     string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change template, theme, typography or photo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := c.rt.App.Load(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("template") {
				t, err := resume.ParseTemplate(template)
				if err != nil {
					return err
				}
				snap.Template = t
			}
			if flags.Changed("color") {
				if !resume.IsHexColor(color) {
					return fmt.Errorf("%w: colour %q is not #rgb or #rrggbb", resume.ErrInvalidSnapshot, color)
				}
				snap.Theme = resume.CustomTheme
				snap.CustomColor = strings.TrimSpace(color)
			}
			if flags.Changed("theme") {
				if !knownTheme(theme) {
					return fmt.Errorf("%w: unknown theme %q", resume.ErrInvalidSnapshot, theme)
				}
				snap.Theme = theme
			}
			if flags.Changed("font") {
				snap.Typography.FontFamily = font
			}
			if flags.Changed("font-size") {
				if fontSize < 50 || fontSize > 200 {
					return fmt.Errorf("%w: font size %d%% outside 50..200", resume.ErrInvalidSnapshot, fontSize)
				}
				snap.Typography.FontSize = fontSize
			}
			if flags.Changed("text-color") {
				snap.Typography.Color = textColor
			}
			if flags.Changed("photo") {
				if photo == "" {
					snap.Photo = ""
				} else {
					raw, err := os.ReadFile(photo)
					if err != nil {
						return fmt.Errorf("read %s: %w", photo, err)
					}
					uri, err := resume.PhotoDataURI(raw)
					if err != nil {
						return err
					}
					snap.Photo = uri
				}
			}

			saved, res, err := c.rt.App.Update(ctx, snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "template=%s theme=%s pages=%d\n", saved.Template, templates.ResolveTheme(saved.Preferences).ID, len(res.Pages))
			return nil
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "layout: modern, classic or creative")
	cmd.Flags().StringVar(&theme, "theme", "", "accent palette id")
	cmd.Flags().StringVar(&color, "color", "", "custom accent colour (#rgb or #rrggbb)")
	cmd.Flags().StringVar(&font, "font", "", "CSS font family")
	cmd.Flags().IntVar(&fontSize, "font-size", resume.DefaultFontSize, "base font size in percent")
	cmd.Flags().StringVar(&textColor, "text-color", "", "body text colour")
	cmd.Flags().StringVar(&photo, "photo", "", "image file to embed as the photo; empty removes it")
	return cmd
}

func knownTheme(id string) bool {
	if id == resume.CustomTheme {
		return true
	}
	for _, t := range templates.Themes {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved CV and start from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.rt.App.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "saved CV cleared")
			return nil
		},
	}
}

func (c *CLI) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.rt.App.History(cmd.Context(), limit)
			if errors.Is(err, app.ErrNoHistory) {
				fmt.Fprintln(c.out, "export history needs the database store")
				return nil
			}
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tFORMAT\tNAME\tPAGES\tLOCATION")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Format, e.Name, e.Pages, e.Location)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}

func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "templates",
		Short:       "List layouts and colour themes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipRuntime: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.out, "templates:")
			for _, t := range resume.Templates {
				fmt.Fprintf(c.out, "  %s\n", t)
			}
			fmt.Fprintln(c.out, "themes:")
			for _, t := range templates.Themes {
				fmt.Fprintf(c.out, "  %-8s %s\n", t.ID, t.Primary)
			}
			fmt.Fprintf(c.out, "  %-8s (--color)\n", resume.CustomTheme)
			return nil
		},
	}
}
