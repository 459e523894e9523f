package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bridgefs/bridgefs"
	"github.com/bridgefs/bridgefs/config"
	"github.com/bridgefs/bridgefs/drivers"
	"github.com/bridgefs/bridgefs/filesystem"
	"github.com/bridgefs/bridgefs/internal/util"
)

var (
	rootDir    string
	configPath string
	verbose    int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bridgefs",
		Short:         "Uniform path-based storage surface over pluggable drivers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "Root directory served by the local driver")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config override file (yaml or json)")
	root.PersistentFlags().IntVarP(&verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")

	root.AddCommand(
		newStatCmd(),
		newLsCmd(),
		newCatCmd(),
		newWriteCmd(),
		newMkdirCmd(),
		newRmCmd(),
		newTrashCmd(),
		newMvCmd(),
		newWatchCmd(),
	)
	return root
}

// newAdapter wires config, logging, and the local driver into an adapter.
func newAdapter() (*filesystem.Adapter, error) {
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(override)
	}
	cfg.LogLvl = config.VerboseToLevel(verbose)
	util.InitializeLogger(cfg.LogLvl)

	reg := drivers.NewRegistry()
	drivers.RegisterBuiltins(reg)
	def, err := json.Marshal(struct {
		Type string `json:"type"`
		drivers.LocalSource
	}{Type: "local", LocalSource: drivers.LocalSource{Root: rootDir, TrashDir: cfg.TrashDir}})
	if err != nil {
		return nil, err
	}
	drv, err := reg.New(def)
	if err != nil {
		return nil, err
	}
	return filesystem.New(drv, cfg), nil
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Print metadata for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			st, err := a.Stat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			kind := "dir"
			if st.IsFile {
				kind = "file"
			}
			fmt.Printf("%s\t%d\t%s\n", kind, st.Size, st.Mtime.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List a directory with per-entry metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			names, results, err := a.ReadDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i, name := range names {
				if results[i].Err != nil {
					fmt.Printf("?\t?\t%s\t(%v)\n", name, results[i].Err)
					continue
				}
				kind := "dir"
				if results[i].Stats.IsFile {
					kind = "file"
				}
				fmt.Printf("%s\t%d\t%s\n", kind, results[i].Stats.Size, name)
			}
			return nil
		},
	}
}

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print file contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			data, _, err := a.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func newWriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write <path> [data]",
		Short: "Write a file from the argument or stdin",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			var data []byte
			if len(args) == 2 {
				data = []byte(args[1])
			} else {
				if data, err = io.ReadAll(os.Stdin); err != nil {
					return err
				}
			}
			st, err := a.WriteFile(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes\n", st.Size)
			return nil
		},
	}
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			_, err = a.Mkdir(cmd.Context(), args[0], 0)
			return err
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or empty directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Unlink(cmd.Context(), args[0])
		},
	}
}

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <path>",
		Short: "Move a path to the trash directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.MoveToTrash(cmd.Context(), args[0])
		},
	}
}

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <old> <new>",
		Short: "Rename a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Rename(cmd.Context(), args[0], args[1])
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print batched change notifications; SIGHUP injects a wholesale refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAdapter()
			if err != nil {
				return err
			}
			defer a.Close()
			logger := util.GetLogger("watch")

			a.InitWatchers(func(ev bridgefs.ChangeEvent) {
				if ev.Wholesale {
					fmt.Println("changed: <entire tree>")
					return
				}
				fmt.Println("changed:", ev.Path)
			})

			focusChan := make(chan os.Signal, 1)
			signal.Notify(focusChan, syscall.SIGHUP)
			stopChan := make(chan os.Signal, 1)
			signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

			logger.Info().Str("root", rootDir).Msg("Watching; send SIGHUP to mark the tree stale")
			for {
				select {
				case <-focusChan:
					a.FocusGained()
				case sig := <-stopChan:
					logger.Info().Str("signal", sig.String()).Msg("Received signal, stopping")
					return nil
				}
			}
		},
	}
}
