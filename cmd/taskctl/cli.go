package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

// cli carries what every command needs. The constructors are fields so that
// tests can swap the server adapter and the storage backend.
type cli struct {
	cfg *config.StructuredConfig
	out io.Writer
	log *logger.Logger

	newAdapter   func(cfg config.Adapter, log *logger.Logger) (adapter.ServerAdapter, error)
	openStorages func(ctx context.Context, cfg config.Storage, log *logger.Logger) (*store.Storages, error)
}

func newCLI(cfg *config.StructuredConfig, out io.Writer, log *logger.Logger) *cli {
	return &cli{
		cfg:          cfg,
		out:          out,
		log:          log,
		newAdapter:   adapter.NewHTTPServerAdapter,
		openStorages: store.NewStorages,
	}
}

func newRootCmd(c *cli, buildInfo models.AppBuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "Operate a task keeper store and talk to its API",
		Version:       buildInfo.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.Adapter.HTTPAddress, "server", c.cfg.Adapter.HTTPAddress, "API base URL (ADAPTER_ADDRESS)")
	flags.StringVar(&c.cfg.Adapter.Token, "token", c.cfg.Adapter.Token, "bearer token (ADAPTER_TOKEN)")
	flags.StringVarP(&c.cfg.Storage.DB.DSN, "database", "d", c.cfg.Storage.DB.DSN, "storage DSN for migrate and seed (STORAGE_DB_DATABASE_URI)")

	root.AddCommand(
		c.migrateCmd(),
		c.seedCmd(),
		c.statusCmd(),
		c.loginCmd(),
		c.tasksCmd(),
		c.teamCmd(),
	)

	return root
}

// serverAdapter validates the adapter settings and connects to the API.
func (c *cli) serverAdapter() (adapter.ServerAdapter, error) {
	if err := c.cfg.ValidateAdapter(); err != nil {
		return nil, err
	}
	return c.newAdapter(c.cfg.Adapter, c.log)
}

// storages opens the configured backend. Callers must close it.
func (c *cli) storages(ctx context.Context, migrate bool) (*store.Storages, error) {
	if err := c.cfg.ValidateStorage(); err != nil {
		return nil, err
	}
	storageCfg := c.cfg.Storage
	storageCfg.DB.Migrate = migrate
	return c.openStorages(ctx, storageCfg, c.log)
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func printTasks(w io.Writer, tasks []models.Task) {
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, due)
	}
}
