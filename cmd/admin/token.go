package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/contests/auth"
	"github.com/spf13/cobra"
)

// newTokenCmd mints bearer tokens for local development.
func newTokenCmd(getenv func(string) string) *cobra.Command {
	var username, userUUID, role string
	var ttl time.Duration

	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Sign a development JWT with JWT_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := getenv("JWT_KEY")
			if key == "" {
				return errors.New("JWT_KEY is not set")
			}
			id := uuid.New()
			if userUUID != "" {
				var err error
				if id, err = uuid.Parse(userUUID); err != nil {
					return fmt.Errorf("invalid --uuid: %w", err)
				}
			}
			token, err := auth.GenerateJWT(username, id, role, []byte(key), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&username, "username", "dev", "username claim")
	tokenCmd.Flags().StringVar(&userUUID, "uuid", "", "user uuid, random when empty")
	tokenCmd.Flags().StringVar(&role, "role", "", "role claim, e.g. admin")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return tokenCmd
}
