package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobradar/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Store credentials in the OS keyring",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <account>",
	Short: "Read a secret from stdin and store it under account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "value for %s: ", args[0])
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read secret: %w", err)
		}
		value := strings.TrimSpace(line)
		if value == "" {
			return fmt.Errorf("empty secret for %s", args[0])
		}
		if err := secrets.Set(args[0], value); err != nil {
			return err
		}
		appLogger.Info("secret stored", zap.String("service", secrets.KeyringService), zap.String("account", args[0]))
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove a secret from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return err
		}
		appLogger.Info("secret deleted", zap.String("account", args[0]))
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
	rootCmd.AddCommand(secretCmd)
}
