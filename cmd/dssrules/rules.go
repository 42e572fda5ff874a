package main

import (
	"fmt"
	"sync/atomic"

	"dssrules/internal/rules"

	"github.com/spf13/cobra"
)

func newGetCommand(opts *rootOptions) *cobra.Command {
	var (
		taskContext   string
		noSuggestions bool
		render        bool
	)

	cmd := &cobra.Command{
		Use:   "get [RULE_FILE...]",
		Short: "Print rule documents, the bootstrap set when none are named",
		Long: `Print rule documents as get_dss_rules would return them.

With no arguments the bootstrap rules are loaded. A single argument may be a
comma-separated list; several arguments are taken as a list of paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dir, err := opts.load()
			if err != nil {
				return err
			}

			svc := rules.NewService(dir, new(atomic.Bool), opts.logger)
			text := svc.GetRules(requestFromArgs(args), taskContext, !noSuggestions)
			return writeMarkdown(cmd, text, renderRequested(cmd, render))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&taskContext, "context", "", "task context used to suggest related rules")
	flags.BoolVar(&noSuggestions, "no-suggestions", false, "do not append context suggestions")
	flags.BoolVar(&render, "render", false, "render markdown for the terminal (default when stdout is a terminal)")
	return cmd
}

// requestFromArgs maps positional arguments onto the rule_files shapes.
func requestFromArgs(args []string) rules.Request {
	switch len(args) {
	case 0:
		return rules.AbsentRequest()
	case 1:
		return rules.StringRequest(args[0])
	default:
		return rules.ListRequest(args)
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		category       string
		noDescriptions bool
		render         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available rule documents by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, dir, err := opts.load()
			if err != nil {
				return err
			}

			svc := rules.NewService(dir, new(atomic.Bool), opts.logger)
			return writeMarkdown(cmd, svc.ListRules(category, !noDescriptions), renderRequested(cmd, render))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&category, "category", rules.CategoryAll, "category to list: workflows, guidelines, config or all")
	flags.BoolVar(&noDescriptions, "no-descriptions", false, "omit descriptions")
	flags.BoolVar(&render, "render", false, "render markdown for the terminal (default when stdout is a terminal)")
	return cmd
}

func writeMarkdown(cmd *cobra.Command, text string, render bool) error {
	if render {
		rendered, err := renderMarkdown(text)
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		text = rendered
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
