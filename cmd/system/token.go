package system

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agendaq/agendaq_backend/config"
	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// NewTokenCommand mints an access token for a tenant. Meant for local
// development and smoke tests against a running server.
func NewTokenCommand() *cobra.Command {
	var (
		tenantID string
		userID   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			mgr, err := pasetotoken.NewPasetoManager(cfg)
			if err != nil {
				return fmt.Errorf("failed to build token manager: %w", err)
			}

			uid := uuid.New()
			if userID != "" {
				uid, err = uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid user id: %w", err)
				}
			}

			token, err := mgr.IssueAccess(uid, tenantID)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "demo", "tenant claim for the token")
	cmd.Flags().StringVar(&userID, "user", "", "user id claim (random when empty)")

	return cmd
}
