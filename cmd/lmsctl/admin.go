package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"academy/lms-backend/internal/repository"
	"academy/lms-backend/internal/repository/mongo"
	"academy/lms-backend/internal/service"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	driver "go.mongodb.org/mongo-driver/mongo"
)

const defaultAdminName = "Admin"

func newCreateAdminCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin <email> <password> [name]",
		Short: "Create an admin account or promote an existing user",
		Long: `Creates an admin account with the given credentials. When a non-admin
account with the same email exists, its name and password are reset and it
is promoted to admin. An existing admin is left unchanged.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultAdminName
			if len(args) == 3 {
				name = args[2]
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return c.withDatabase(ctx, func(db *driver.Database) error {
				return createAdmin(ctx, cmd.OutOrStdout(), mongo.NewMongoUserRepository(db), c.cfg.JWT.Secret, c.log, args[0], args[1], name)
			})
		},
	}
}

func createAdmin(ctx context.Context, out io.Writer, users repository.UserRepository, secret string, log logrus.FieldLogger, email, password, name string) error {
	if secret == "" {
		// Tokens are never signed here; the service only refuses an empty secret.
		secret = "unused"
	}
	auth := service.NewAuthService(users, secret, time.Hour, log)
	user, outcome, err := auth.EnsureAdmin(ctx, name, email, password)
	if err != nil {
		return errors.Wrap(err, "create admin")
	}

	switch outcome {
	case service.AdminCreated:
		fmt.Fprintf(out, "Admin user created: %s (%s)\n", user.Email, user.Name)
	case service.AdminPromoted:
		fmt.Fprintf(out, "Updated user to admin: %s\n", user.Email)
	default:
		fmt.Fprintf(out, "Admin user already exists: %s\n", user.Email)
	}
	return nil
}
