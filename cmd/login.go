package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oagunth/oagunth-cli/internal/config"
	"github.com/oagunth/oagunth-cli/internal/oagunth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with the OAuth2 device code flow",
	Long: `login obtains a token through the OAuth2 device code flow configured
under http.oauth and stores it in http.token_file.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	_ = loadDotEnv()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	tok, err := oagunth.Login(cmd.Context(), oauthOf(cfg), cfg.HTTP.TokenFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in. Token stored in %s", cfg.HTTP.TokenFile)
	if !tok.Expiry.IsZero() {
		fmt.Fprintf(cmd.OutOrStdout(), " (expires %s)", tok.Expiry.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(cmd.OutOrStdout(), ".")
	return nil
}
