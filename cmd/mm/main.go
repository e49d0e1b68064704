// mm runs multimethod engines from the command line and manages their
// stored snapshots.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/multimethod/config"
	"github.com/chazu/multimethod/dispatch"
	"github.com/chazu/multimethod/snapshot"
)

var log = commonlog.GetLogger("multimethod.mm")

// Options holds the flags shared by every subcommand.
type Options struct {
	ConfigDir string
	Verbose   int
}

func main() {
	var opts Options

	rootCmd := &cobra.Command{
		Use:   "mm",
		Short: "Multiple dispatch engine",
		Long: `mm drives a multimethod engine configured by multimethod.toml.
It plays the sea encounter scenario and stores engine snapshots in SQLite.`,
		Example: `  # Play the sea scenario
  mm run

  # Play it with debug logging and keep a snapshot
  mm run -vv --save sea

  # Inspect stored snapshots
  mm list
  mm show sea`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigDir, "config", "c", ".", "Directory to search upward for multimethod.toml")
	rootCmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "Increase log verbosity (repeatable)")

	rootCmd.AddCommand(runCmd(&opts))
	rootCmd.AddCommand(listCmd(&opts))
	rootCmd.AddCommand(showCmd(&opts))
	rootCmd.AddCommand(deleteCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig finds the configuration file, falling back to defaults, and
// applies its logging settings.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.FindAndLoad(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Verbose > 0 {
		cfg.Log.Verbosity = opts.Verbose
	}
	cfg.Log.Configure()
	if cfg.Dir != "" {
		log.Info("loaded configuration", "dir", cfg.Dir)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*snapshot.Store, error) {
	st, err := snapshot.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("snapshot store %s: %w", cfg.StorePath(), err)
	}
	return st, nil
}

func runCmd(opts *Options) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play the sea encounter scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			space, err := cfg.BuildSpace()
			if err != nil {
				return err
			}

			engine := dispatch.NewEngine(space, cfg.EngineOptions("encounter"))
			s, err := newSea(space, engine, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("setting up the sea: %w", err)
			}
			if err := s.Run(); err != nil {
				return err
			}

			if save == "" {
				return nil
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(save, engine.Snapshot()); err != nil {
				return err
			}
			log.Info("saved snapshot", "name", save, "store", st.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&save, "save", "s", "", "Store a snapshot of the engine under this name")
	return cmd
}

func listCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENGINE\tINSTANCES\tSIZE\tTAKEN")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					e.Name, e.EngineID, e.Instances, e.Size, e.TakenAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func showCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the instances and frames of a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Load(args[0])
			if err != nil {
				return err
			}
			return printSnapshot(cmd.OutOrStdout(), snap)
		},
	}
}

func deleteCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(args[0])
		},
	}
}
