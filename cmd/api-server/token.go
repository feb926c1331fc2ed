package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hackgods/doctor-booking/internal/auth"
	"github.com/hackgods/doctor-booking/internal/config"
)

// tokenCmd mints a session token, for local testing and operator access.
func tokenCmd() *cobra.Command {
	var (
		role string
		id   string
		name string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAuth()
			if err != nil {
				return err
			}

			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}

			actorID := uuid.New()
			if id != "" {
				if actorID, err = uuid.Parse(id); err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
			}

			raw, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL).Issue(auth.Actor{Role: r, ID: actorID, Name: name})
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "patient", "patient, doctor or admin")
	cmd.Flags().StringVar(&id, "id", "", "actor id (doctor id for doctors); random when empty")
	cmd.Flags().StringVar(&name, "name", "", "display name carried in the token")
	return cmd
}
