package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"jobradar/internal/notify"
)

var gmailAuthCmd = &cobra.Command{
	Use:   "gmail-auth",
	Short: "Authorize Gmail sending and save the OAuth token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}
		creds := cfg.Notify.Gmail.CredentialsFile
		tokenFile := cfg.Notify.Gmail.TokenFile
		if creds == "" || tokenFile == "" {
			return fmt.Errorf("notify.gmail.credentials_file and token_file must be set")
		}

		oc, err := notify.GmailOAuthConfig(creds)
		if err != nil {
			return err
		}

		url := oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
		fmt.Fprintf(cmd.OutOrStdout(), "Open this link in your browser, then paste the authorization code:\n%v\n> ", url)

		code, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && code == "" {
			return fmt.Errorf("read authorization code: %w", err)
		}

		tok, err := oc.Exchange(cmd.Context(), strings.TrimSpace(code))
		if err != nil {
			return fmt.Errorf("exchange authorization code: %w", err)
		}
		if err := notify.SaveToken(tokenFile, tok); err != nil {
			return err
		}
		appLogger.Info("gmail token saved", zap.String("path", tokenFile))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gmailAuthCmd)
}
