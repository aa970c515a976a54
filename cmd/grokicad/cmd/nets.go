package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsmithnh3/grokicad-sub002/internal/ctxlog"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/connect"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

var (
	netsJSON bool
	netsFlat bool
)

var netsCmd = &cobra.Command{
	Use:   "nets <schematic_file> [component] [pin]",
	Short: "Resolve and list electrical nets",
	Long: `Resolve the electrical connectivity of a schematic and list its nets.

Without component/pin arguments: lists every resolved net.
With component and pin: shows the net that pin belongs to and its peers.

Multi-sheet designs are aggregated through sheet pins, hierarchical labels
and global labels unless --flat restricts resolution to the given file.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
	netsCmd.Flags().BoolVar(&netsJSON, "json", false, "emit nets as JSON")
	netsCmd.Flags().BoolVar(&netsFlat, "flat", false, "resolve only this sheet, ignoring the hierarchy")
}

func runNets(cmd *cobra.Command, args []string) error {
	filename := args[0]
	log := ctxlog.FromContext(cmd.Context())

	sch, err := schematic.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}

	if !netsFlat && len(sch.Sheets) > 0 {
		return runProjectNets(cmd, filename, args[1:])
	}

	analyzer := connect.NewAnalyzer(sch)
	res := analyzer.Resolve()
	log.Debug("resolved sheet", "nets", len(res.Nets), "diagnostics", len(res.Diagnostics))

	if len(args) >= 3 {
		return showPinNet(analyzer, args[1], args[2])
	}

	if netsJSON {
		return emitJSON(struct {
			Nets        []*connect.Net       `json:"nets"`
			Diagnostics []connect.Diagnostic `json:"diagnostics,omitempty"`
		}{res.Nets, res.Diagnostics})
	}

	fmt.Printf("Nets: %d\n\n", len(res.Nets))
	for _, net := range res.Nets {
		printNet(net.Name, net.PowerDerived, func(yield func(ref, pin string)) {
			for _, p := range net.Pins {
				yield(p.Reference, p.Pin)
			}
		})
	}
	printDiagnostics(res.Diagnostics)
	return nil
}

func runProjectNets(cmd *cobra.Command, filename string, query []string) error {
	log := ctxlog.FromContext(cmd.Context())

	rootFile, sheets, err := schematic.LoadHierarchy(filename)
	if err != nil {
		return err
	}
	pr := connect.ResolveProject(&connect.Project{RootFile: rootFile, Sheets: sheets})
	log.Debug("resolved project", "sheets", len(sheets), "nets", len(pr.Nets), "findings", len(pr.Findings))

	if len(query) >= 2 {
		net := pr.NetForPin(rootFile, query[0], query[1])
		if net == nil {
			fmt.Printf("%s pin %s: no net\n", query[0], query[1])
			return nil
		}
		fmt.Printf("%s pin %s -> %s\n", query[0], query[1], net.Name)
		for _, p := range net.Pins {
			fmt.Printf("  [%s] %s pin %s\n", p.Sheet, p.Reference, p.Pin)
		}
		return nil
	}

	if netsJSON {
		return emitJSON(struct {
			Nets     []*connect.ProjectNet `json:"nets"`
			Findings []connect.Finding     `json:"findings,omitempty"`
		}{pr.Nets, pr.Findings})
	}

	fmt.Printf("Sheets: %d\nNets: %d\n\n", len(sheets), len(pr.Nets))
	for _, net := range pr.Nets {
		printNet(net.Name, net.PowerDerived, func(yield func(ref, pin string)) {
			for _, p := range net.Pins {
				yield(p.Sheet+":"+p.Reference, p.Pin)
			}
		})
	}
	if len(pr.Findings) > 0 {
		fmt.Println("Findings:")
		for _, f := range pr.Findings {
			fmt.Printf("  %s\n", f)
		}
	}
	return nil
}

func showPinNet(analyzer *connect.Analyzer, ref, pin string) error {
	net := analyzer.NetForPin(ref, pin)
	if net == nil {
		fmt.Printf("%s pin %s: no net\n", ref, pin)
		return nil
	}
	fmt.Printf("%s pin %s -> %s\n", ref, pin, net.Name)
	for _, p := range analyzer.ConnectedPins(ref, pin) {
		fmt.Printf("  %s pin %s\n", p.Reference, p.Pin)
	}
	return nil
}

func printNet(name string, power bool, pins func(yield func(ref, pin string))) {
	tag := ""
	if power {
		tag = " [power]"
	}
	var members []string
	pins(func(ref, pin string) {
		members = append(members, fmt.Sprintf("%s.%s", ref, pin))
	})
	fmt.Printf("  %s%s: %s\n", name, tag, strings.Join(members, ", "))
}

func printDiagnostics(diags []connect.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Println("\nDiagnostics:")
	for _, d := range diags {
		fmt.Printf("  %s\n", d)
	}
}

func emitJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
