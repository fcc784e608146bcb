// Package main implements promptwizard, an offline CLI that renders
// text-to-music prompts from the preset catalog without running the API.
//
// Usage:
//
//	promptwizard render --blueprint podcast_voiceover_loop --profile lofi_cozy --instrumental
//	promptwizard presets --format text
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
	"github.com/Conceptual-Machines/music-prompt-api/internal/prompt"
)

const (
	formatYAML = "yaml"
	formatText = "text"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "promptwizard",
		Short:        "Render text-to-music prompts from presets",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newRenderCmd(), newPresetsCmd())
	return root
}

type renderFlags struct {
	blueprint    string
	profile      string
	delivery     string
	instrumental bool
	narrative    string
	showRules    bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the prompt for a preset selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.blueprint, "blueprint", "", "project blueprint id")
	cmd.Flags().StringVar(&f.profile, "profile", "", "sound profile id")
	cmd.Flags().StringVar(&f.delivery, "delivery", "", "delivery and control id")
	cmd.Flags().BoolVar(&f.instrumental, "instrumental", false, "force an instrumental result")
	cmd.Flags().StringVar(&f.narrative, "narrative", "", "lyric theme, used only for sung blueprints")
	cmd.Flags().BoolVar(&f.showRules, "rules", false, "also print the rules that fired")
	return cmd
}

// runRender only forwards flags the user set, so unset axes fall back to defaults
func runRender(cmd *cobra.Command, f renderFlags) error {
	var req presets.Request
	flags := cmd.Flags()
	if flags.Changed("blueprint") {
		req.ProjectBlueprint = &f.blueprint
	}
	if flags.Changed("profile") {
		req.SoundProfile = &f.profile
	}
	if flags.Changed("delivery") {
		req.DeliveryAndControl = &f.delivery
	}
	if flags.Changed("instrumental") {
		req.InstrumentalOnly = &f.instrumental
	}
	if flags.Changed("narrative") {
		req.UserNarrative = &f.narrative
	}

	result := prompt.NewPromptBuilder().Build(req)
	out := cmd.OutOrStdout()
	for _, axis := range result.Resolved.Defaulted {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s defaulted\n", axis)
	}
	if _, err := fmt.Fprintln(out, result.Rendered.String()); err != nil {
		return err
	}
	if f.showRules {
		fmt.Fprintf(out, "\nrules: %v\n", result.Attributes.Applied)
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Print the preset catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeCatalog(cmd.OutOrStdout(), presets.Catalog(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatYAML, "output format: yaml or text")
	return cmd
}

func writeCatalog(w io.Writer, listing presets.CatalogListing, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listing); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		return enc.Close()
	case formatText:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "AXIS\tID\tNAME")
		for _, b := range listing.Blueprints {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", presets.AxisProjectBlueprint, b.ID, b.Name)
		}
		for _, p := range listing.Profiles {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", presets.AxisSoundProfile, p.ID, p.Name)
		}
		for _, d := range listing.Deliveries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", presets.AxisDeliveryAndControl, d.ID, d.Name)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (allowed: yaml, text)", format)
	}
}
