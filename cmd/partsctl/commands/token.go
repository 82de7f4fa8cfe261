package commands

import (
	"fmt"
	"time"

	"partsadmin/internal/middleware"
	"partsadmin/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenOrg  string
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development JWT",
	Long: `Sign a bearer token with JWT_SECRET for local testing.

Examples:
  partsctl token --user 1b2c... --org 5f0c... --role admin
  partsctl token --user 1b2c... --org 5f0c... --role user --ttl 15m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(tokenUser)
		if err != nil {
			return fmt.Errorf("--user: %w", err)
		}
		orgID, err := uuid.Parse(tokenOrg)
		if err != nil {
			return fmt.Errorf("--org: %w", err)
		}
		switch tokenRole {
		case model.RoleAdmin, model.RoleCyntekAdmin, model.RoleOrgAdmin, model.RoleUser:
		default:
			return fmt.Errorf("--role: unknown role %q", tokenRole)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tok, err := middleware.NewToken(cfg.JWTSecret, userID, orgID, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User id")
	tokenCmd.Flags().StringVar(&tokenOrg, "org", "", "Organization id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", model.RoleUser, "Role: admin, cyntek_admin, org_admin or user")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 8*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	_ = tokenCmd.MarkFlagRequired("org")
	rootCmd.AddCommand(tokenCmd)
}
