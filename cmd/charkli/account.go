package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DENFSA/CharkLi/internal/database"
	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/sheet"
)

var (
	accountEmail    string
	accountPassword string
	accountNoDemo   bool
)

var createAccountCmd = &cobra.Command{
	Use:   "create-account",
	Short: "Create an account",
	Long:  `Create an account with the configured password policy and seed its demo character.`,
	RunE:  runCreateAccount,
}

func init() {
	createAccountCmd.Flags().StringVar(&accountEmail, "email", "", "Account email")
	createAccountCmd.Flags().StringVar(&accountPassword, "password", "", "Account password")
	createAccountCmd.Flags().BoolVar(&accountNoDemo, "no-demo", false, "Skip the demo character")
	_ = createAccountCmd.MarkFlagRequired("email")
	_ = createAccountCmd.MarkFlagRequired("password")
}

func runCreateAccount(cmd *cobra.Command, _ []string) error {
	if msg := cfg.Password.ValidatePassword(accountPassword); msg != "" {
		return errors.New(msg)
	}

	db, err := database.OpenWithConfig(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	account, err := db.CreateAccount(ctx, accountEmail, accountPassword)
	if err != nil {
		return err
	}
	logger.Audit("Account created from the command line",
		"account_id", account.ID,
		"email", account.Email,
		"event", "register")

	if !accountNoDemo {
		if _, err := sheet.NewService(db).SeedDemo(ctx, account.ID, account.Email); err != nil {
			return fmt.Errorf("seed demo character: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created account %d for %s\n", account.ID, account.Email)
	return nil
}
