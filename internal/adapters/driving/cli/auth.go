package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/annex-labs/annex-cli/internal/connectors/github"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage source credentials",
	Long: `Store and remove credentials for external sources.

Tokens are kept in the local config file with owner-only permissions.`,
}

var authGithubCmd = &cobra.Command{
	Use:   "github",
	Short: "Configure a GitHub personal access token",
	Long: `Prompts for a GitHub personal access token (PAT), validates it against
the API and stores it for 'annex sync github'.

Create a token at https://github.com/settings/tokens with 'repo' scope
for private repositories, or no scopes for public ones.`,
	RunE: runAuthGithub,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove [source]",
	Short: "Remove stored credentials for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	authCmd.AddCommand(authGithubCmd)
	authCmd.AddCommand(authRemoveCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthGithub(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	token, err := readToken(cmd)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("token is required")
	}

	cmd.Println("Validating token...")
	client := github.NewClientWithToken(cmd.Context(), token)
	if err := client.ValidateCredentials(cmd.Context()); err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	if err := configStore.Set("github.token", token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	cmd.Println("GitHub token stored.")
	return nil
}

// readToken reads a token without echoing when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func readToken(cmd *cobra.Command) (string, error) {
	cmd.Print("GitHub personal access token: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	var token string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &token); err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(token), nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	source := args[0]
	if source != "github" {
		return fmt.Errorf("unknown source %q", source)
	}

	if err := configStore.Delete(source + ".token"); err != nil {
		return fmt.Errorf("remove credentials: %w", err)
	}

	cmd.Printf("Removed credentials for %s.\n", source)
	return nil
}
