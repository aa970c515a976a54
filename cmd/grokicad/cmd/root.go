package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dsmithnh3/grokicad-sub002/internal/config"
	"github.com/dsmithnh3/grokicad-sub002/internal/ctxlog"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "grokicad",
	Short: "grokicad - KiCad schematic connectivity analysis",
	Long: `grokicad derives electrical connectivity from KiCad schematics:
  - net resolution across wires, junctions, labels and power symbols
  - multi-sheet hierarchy aggregation with validation findings
  - spatial proximity scoring (decoupling-cap detection)
  - bounded focus slices around selected components

Examples:
  grokicad info board.kicad_sch              # Show schematic summary
  grokicad nets board.kicad_sch              # List resolved nets
  grokicad nets board.kicad_sch U1 14        # Show the net of one pin
  grokicad proximity board.kicad_sch         # Score component proximity
  grokicad focus board.kicad_sch -s U1       # Slice context around U1`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// A .env alongside the working directory may set GROKICAD_* defaults.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "HCL config file (default $GROKICAD_CONFIG)")
}

// loadConfig reads the --config file, falling back to $GROKICAD_CONFIG.
// No file at all is fine: every consumer defaults sensibly.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("GROKICAD_CONFIG")
	}
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}
