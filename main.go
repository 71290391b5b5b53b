package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"journeymap/internal/ui"
)

var version = "0.4.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "journeymap",
		Short: "Plan campaign content journeys on a terminal canvas",
		Long: ui.Brand.Sprint("journeymap") + " lays out a brand's campaign content as a journey\n" +
			ui.Subtle.Sprint("Drop content onto the canvas, drag it into place and connect the steps"),
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanvas(cmd.Context(), f)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.brand, "brand", "b", "", "Brand whose journeys to open")
	pf.StringVarP(&f.campaign, "campaign", "c", "", `Campaign to open ("all" or empty for every campaign)`)
	pf.StringVar(&f.catalog, "catalog", "", "JSON file with the content records to place")
	pf.StringVar(&f.storage, "storage", "", "Storage backend: memory, file, bolt, sqlite or postgres")

	cmd.AddCommand(
		showCmd(f),
		exportCmd(f),
		importCmd(f),
		clearCmd(f),
		renameCmd(f),
		keysCmd(f),
		serveCmd(f),
		configCmd(),
	)
	return cmd
}

func runCanvas(ctx context.Context, f *flags) error {
	a, err := openApp(ctx, f)
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "journeymap: %v\n", err)
		return err
	}
	defer a.Close()

	catalog, err := loadCatalog(f.catalog)
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "journeymap: %v\n", err)
		return err
	}

	m := newModel(a.cfg, a.log, a.repo, catalog, f.brand, f.campaign)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run canvas: %w", err)
	}
	return nil
}
