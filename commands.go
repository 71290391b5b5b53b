package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"journeymap/internal/config"
	"journeymap/internal/export"
	"journeymap/internal/journey"
	"journeymap/internal/server"
	"journeymap/internal/ui"
)

// cliNotifier prints orchestrator notices for commands that run without the
// canvas.
func cliNotifier(w io.Writer) journey.Notifier {
	return journey.NotifierFunc(func(n journey.Notice) {
		if n.Level == journey.LevelError {
			ui.Bad.Fprintf(w, "  %s\n", n.Message)
			return
		}
		ui.Info.Fprintf(w, "  %s\n", n.Message)
	})
}

// withJourney opens the app and the map named by the flags, runs fn and
// closes everything.
func withJourney(cmd *cobra.Command, f *flags, fn func(a *app, orch *journey.Orchestrator) error) error {
	a, err := openApp(cmd.Context(), f)
	if err != nil {
		return err
	}
	defer a.Close()
	orch, err := a.orchestrator(f, cliNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	return fn(a, orch)
}

func showCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the nodes and connections of a journey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJourney(cmd, f, func(a *app, orch *journey.Orchestrator) error {
				printJourney(cmd.OutOrStdout(), orch.Snapshot())
				return nil
			})
		},
	}
}

func printJourney(w io.Writer, m *journey.Map) {
	ui.Brand.Fprintln(w, m.Title)
	fmt.Fprintln(w)
	if len(m.Nodes) == 0 {
		ui.Subtle.Fprintln(w, "  No content on this journey yet.")
		return
	}

	rows := make([][]string, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		rows = append(rows, []string{
			n.ID,
			n.Content.Name,
			n.Content.Format,
			fmt.Sprintf("%.0f", n.Content.QualityScore),
			fmt.Sprintf("%.0f,%.0f", n.Position.X, n.Position.Y),
		})
	}
	ui.Table(w, []string{"ID", "Content", "Format", "Quality", "Position"}, rows)

	if len(m.Connections) == 0 {
		return
	}
	fmt.Fprintln(w)
	rows = rows[:0]
	for _, c := range m.Connections {
		rows = append(rows, []string{c.ID, nodeName(m, c.From), nodeName(m, c.To)})
	}
	ui.Table(w, []string{"Connection", "From", "To"}, rows)
}

func nodeName(m *journey.Map, id string) string {
	if n, ok := m.Node(id); ok {
		return n.Content.Name
	}
	return id
}

func exportCmd(f *flags) *cobra.Command {
	var (
		format string
		outDir string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a journey as JSON or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJourney(cmd, f, func(a *app, orch *journey.Orchestrator) error {
				dir := outDir
				if dir == "" {
					dir = a.cfg.Export.Directory
				}
				m := orch.Snapshot()
				switch strings.ToLower(format) {
				case "json":
					if stdout {
						data, err := export.JSON(m)
						if err != nil {
							return err
						}
						_, err = cmd.OutOrStdout().Write(data)
						return err
					}
					path, err := export.WriteJSON(dir, orch.Brand(), orch.Campaign(), m)
					if err != nil {
						return err
					}
					ui.Good.Fprintf(cmd.OutOrStdout(), "%s Exported %s\n", ui.StatusIcon(true), path)
				case "png":
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return err
					}
					path := filepath.Join(dir, export.PNGFileName(orch.Brand(), orch.Campaign()))
					size := journeySize(a.cfg)
					if err := export.PNG(m, path, export.PNGOptions{Size: size}); err != nil {
						return err
					}
					ui.Good.Fprintf(cmd.OutOrStdout(), "%s Exported %s\n", ui.StatusIcon(true), path)
				default:
					return fmt.Errorf("unknown format %q: use json or png", format)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or png")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write to (default from config)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print JSON to stdout instead of writing a file")
	return cmd
}

func importCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace a journey with a previously exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := export.ReadJSON(args[0])
			if err != nil {
				return err
			}
			return withJourney(cmd, f, func(a *app, orch *journey.Orchestrator) error {
				if err := orch.Replace(m); err != nil {
					return err
				}
				ui.Good.Fprintf(cmd.OutOrStdout(), "%s Imported %d nodes and %d connections into %s\n",
					ui.StatusIcon(true), len(orch.Nodes()), len(orch.Connections()), orch.Key())
				return nil
			})
		},
	}
}

func clearCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every node and connection from a journey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJourney(cmd, f, func(a *app, orch *journey.Orchestrator) error {
				if err := orch.Clear(); err != nil {
					return err
				}
				ui.Good.Fprintf(cmd.OutOrStdout(), "%s Cleared %s\n", ui.StatusIcon(true), orch.Key())
				return nil
			})
		},
	}
}

func renameCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <title>",
		Short: "Change the title of a journey",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title must not be empty")
			}
			return withJourney(cmd, f, func(a *app, orch *journey.Orchestrator) error {
				if err := orch.RenameTitle(title); err != nil {
					return err
				}
				ui.Good.Fprintf(cmd.OutOrStdout(), "%s Renamed %s to %q\n", ui.StatusIcon(true), orch.Key(), title)
				return nil
			})
		},
	}
}

func keysCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the stored journeys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer a.Close()
			keys, err := a.repo.Keys(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(keys) == 0 {
				ui.Subtle.Fprintln(w, "  No journeys saved yet.")
				return nil
			}
			rows := make([][]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, []string{k})
			}
			ui.Table(w, []string{"Key"}, rows)
			return nil
		},
	}
}

func serveCmd(f *flags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journey mutation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer a.Close()
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			orch := journey.NewOrchestrator(a.repo, journey.Options{
				Logger:  a.log,
				Timeout: a.cfg.Storage.Timeout.Duration,
			})
			srv := server.New(orch, a.log)
			ui.Good.Fprintf(cmd.OutOrStdout(), "%s Serving journeys on %s\n", ui.StatusIcon(true), addr)
			return serve(cmd.Context(), srv, addr, a.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// serve runs the server until ctx is cancelled.
func serve(ctx context.Context, srv *server.Server, addr string, log *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return srv.Shutdown()
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			ui.Subtle.Fprintf(w, "# %s\n", config.Path())
			return toml.NewEncoder(w).Encode(cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if there is none",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureExists(); err != nil {
				return err
			}
			ui.Good.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.StatusIcon(true), config.Path())
			return nil
		},
	})
	return cmd
}
