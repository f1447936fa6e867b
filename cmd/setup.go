package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/workspacemcp/internal/auth"
)

func newSetupCmd() *cobra.Command {
	var (
		googleClientID     string
		googleClientSecret string
		clasprcPath        string
		credentialsDir     string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Inspect and configure authentication",
		Long: `Check which authentication paths are available and optionally persist a
Google OAuth client configuration for the serve command.

Without flags, setup reports whether a clasp CLI session is present and which
accounts already hold stored credentials. With --google-client-id and
--google-client-secret it saves the OAuth client so serve can run the
interactive authorization flows without flags or environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, setupOptions{
				googleClientID:     googleClientID,
				googleClientSecret: googleClientSecret,
				clasprcPath:        clasprcPath,
				credentialsDir:     credentialsDir,
			})
		},
	}

	cmd.Flags().StringVar(&googleClientID, "google-client-id", "", "Google OAuth Client ID to persist for the serve command")
	cmd.Flags().StringVar(&googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret to persist for the serve command")
	cmd.Flags().StringVar(&clasprcPath, "clasprc", "", "Path to the clasp session file (default: ~/.clasprc.json)")
	cmd.Flags().StringVar(&credentialsDir, "credentials-dir", "", "Directory for stored credentials (default: ~/.config/workspacemcp/credentials)")

	return cmd
}

type setupOptions struct {
	googleClientID     string
	googleClientSecret string
	clasprcPath        string
	credentialsDir     string
}

func runSetup(cmd *cobra.Command, opts setupOptions) error {
	out := cmd.OutOrStdout()

	if opts.googleClientID != "" || opts.googleClientSecret != "" {
		if opts.googleClientID == "" || opts.googleClientSecret == "" {
			return fmt.Errorf("--google-client-id and --google-client-secret must be provided together")
		}
		path := configPath()
		if err := saveClientConfig(path, clientConfig{
			GoogleClientID:     opts.googleClientID,
			GoogleClientSecret: opts.googleClientSecret,
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "OAuth client configuration saved to %s\n\n", path)
	}

	clasprc := opts.clasprcPath
	if clasprc == "" {
		clasprc = auth.ClaspRCPath()
	}
	if auth.HasClaspSession(clasprc) {
		fmt.Fprintf(out, "clasp session: found at %s\n", clasprc)
		fmt.Fprintln(out, "  Tools will reuse this session without further authorization.")
	} else {
		fmt.Fprintf(out, "clasp session: none at %s\n", clasprc)
	}

	store := auth.NewFileStore(opts.credentialsDir, nil)
	identities, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list stored credentials: %w", err)
	}
	if len(identities) == 0 {
		fmt.Fprintln(out, "stored credentials: none")
	} else {
		fmt.Fprintf(out, "stored credentials: %d account(s)\n", len(identities))
		for _, identity := range identities {
			fmt.Fprintf(out, "  - %s\n", identity)
		}
	}

	stored, err := loadClientConfig(configPath())
	if err != nil {
		return err
	}
	switch {
	case stored.GoogleClientID != "":
		fmt.Fprintln(out, "OAuth client: configured")
	case !auth.HasClaspSession(clasprc):
		fmt.Fprintln(out, "OAuth client: not configured")
		fmt.Fprintln(out, "  Run setup with --google-client-id and --google-client-secret, or set")
		fmt.Fprintln(out, "  the GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars for serve.")
	default:
		fmt.Fprintln(out, "OAuth client: not configured (clasp session covers authentication)")
	}

	return nil
}
