package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pensao-tracker/internal/database"
	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database schema is up to date")
		return nil
	},
}

var deleteUserEmail string

// Users are never deleted over HTTP.
var deleteUserCmd = &cobra.Command{
	Use:   "delete-user",
	Short: "Delete a user with their children, payments and reset tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(deleteUserEmail)
		if email == "" {
			return errors.New("--email is required")
		}

		_, db, err := bootstrap()
		if err != nil {
			return err
		}

		users := repository.NewUserRepository(db)
		user, err := users.GetByEmail(email)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", email, err)
		}
		if err := users.Delete(user.ID); err != nil {
			return fmt.Errorf("delete user %d: %w", user.ID, err)
		}

		logger.Info("Deleted user %d (%s)", user.ID, user.Email)
		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", user.ID)
		return nil
	},
}

func init() {
	deleteUserCmd.Flags().StringVar(&deleteUserEmail, "email", "", "email of the user to delete")
}
