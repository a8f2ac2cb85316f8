// Command lmsctl runs maintenance tasks against the LMS database:
// creating admin accounts and loading the sample catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"academy/lms-backend/internal/config"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/repository/mongo"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	driver "go.mongodb.org/mongo-driver/mongo"
)

type cli struct {
	configPath string
	cfg        config.Config
	log        *logrus.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "lmsctl",
		Short:         "Maintenance commands for the LMS backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", ".", "directory holding config.yaml and .env")

	root.AddCommand(newCreateAdminCommand(c))
	root.AddCommand(newSeedCommand(c))
	return root
}

func (c *cli) load() error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.Database.URI == "" {
		return errors.New("database.uri (DATABASE_URI) is not set")
	}
	c.cfg = cfg
	c.log = logger.New(cfg.Log)
	return nil
}

// withDatabase connects, runs fn against the configured database and disconnects.
func (c *cli) withDatabase(ctx context.Context, fn func(db *driver.Database) error) error {
	client, err := mongo.ConnectDB(c.cfg.Database.URI)
	if err != nil {
		return errors.Wrap(err, "connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(client); err != nil {
			c.log.WithError(err).Warn("failed to disconnect MongoDB")
		}
	}()
	db := client.Database(c.cfg.Database.Name)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "ensure indexes")
	}
	return fn(db)
}
