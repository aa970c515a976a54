package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsmithnh3/grokicad-sub002/internal/ctxlog"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/proximity"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

var (
	proximityJSON   bool
	proximityRadius float64
)

var proximityCmd = &cobra.Command{
	Use:   "proximity <schematic_file>",
	Short: "Score spatial proximity between components",
	Long: `Compute weighted proximity scores for component pairs on one sheet.

Pairs within reach of each other are scored by distance, component category
and the decoupling-capacitor heuristic: capacitors near ICs score highest.`,
	Args: cobra.ExactArgs(1),
	RunE: runProximity,
}

func init() {
	rootCmd.AddCommand(proximityCmd)
	proximityCmd.Flags().BoolVar(&proximityJSON, "json", false, "emit edges as JSON")
	proximityCmd.Flags().Float64VarP(&proximityRadius, "radius", "r", 0, "base radius in mm (overrides config)")
}

func runProximity(cmd *cobra.Command, args []string) error {
	log := ctxlog.FromContext(cmd.Context())

	sch, err := schematic.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := fileCfg.ProximityConfig()
	if proximityRadius > 0 {
		cfg.BaseRadius = proximityRadius
	}

	edges, err := proximity.Score(sch.Components(), cfg)
	if err != nil {
		return err
	}
	log.Debug("scored proximity", "components", len(sch.Symbols), "edges", len(edges))

	if proximityJSON {
		return emitJSON(edges)
	}

	fmt.Printf("Proximity edges: %d (base radius %.1fmm)\n\n", len(edges), cfg.BaseRadius)
	for _, e := range edges {
		fmt.Printf("  %-6s %-10s <-> %-6s %-10s  %6.2fmm  weight %.1f  score %.3f\n",
			e.RefA, e.CategoryA, e.RefB, e.CategoryB, e.Distance, e.Weight, e.Score)
	}
	return nil
}
