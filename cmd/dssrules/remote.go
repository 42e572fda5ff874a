package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"dssrules/internal/repository"

	"github.com/spf13/cobra"
)

func newSyncCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Clone or update the rules directory from the configured git remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, dir, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Remote.URL == "" {
				return errors.New("no remote configured: set remote.url in " + configLocation(opts))
			}

			gs := repository.NewGitSource(cfg.Remote.URL, cfg.Remote.Branch, dir)
			result, err := gs.Sync(opts.logger)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", result.Path, result.Status, shortCommit(result.Commit))
			return err
		},
	}
}

func configLocation(opts *rootOptions) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return "the config file"
}

func shortCommit(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the access token used for private rule repositories",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [TOKEN]",
			Short: "Store a GitHub personal access token in the OS keyring",
			Long:  "Store a GitHub personal access token in the OS keyring. The token is read from stdin when not given as an argument.",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				token, err := tokenFromArgs(cmd, args)
				if err != nil {
					return err
				}
				if err := repository.NewCredentialManager().StoreToken(token); err != nil {
					return err
				}
				opts.logger.Info("Access token stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored access token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := repository.NewCredentialManager().DeleteToken(); err != nil {
					return err
				}
				opts.logger.Info("Access token removed")
				return nil
			},
		},
	)
	return cmd
}

func tokenFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Token: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
