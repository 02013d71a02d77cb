package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"catalyst/internal/pkg/storagefactory"
	"catalyst/internal/service"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative tasks",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin user or promote an existing one",
	Long: `Create an admin user in the durable store. If the username already exists,
the user is promoted to admin and reactivated; the password is left unchanged.`,
	RunE: runAdminCreate,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	flags := adminCreateCmd.Flags()
	flags.String("username", "admin", "admin username")
	flags.String("email", "admin@example.com", "admin email")
	flags.String("password", "", "admin password (required for new users)")
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	flags := cmd.Flags()
	username, _ := flags.GetString("username")
	email, _ := flags.GetString("email")
	pwd, _ := flags.GetString("password")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storagefactory.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open durable store: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to close durable store")
		}
	}()

	user, created, err := service.NewAdminService(store).EnsureAdmin(ctx, username, email, pwd)
	if err != nil {
		return err
	}

	action := "promoted"
	if created {
		action = "created"
	}
	fmt.Printf("Admin %s: id=%s username=%s email=%s\n", action, user.ID, user.Username, user.Email)
	return nil
}
