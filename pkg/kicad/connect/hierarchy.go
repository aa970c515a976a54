package connect

import (
	"fmt"
	"sort"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/schematic"
)

// Project is a multi-sheet design: every sheet keyed by file name, plus the
// file name of the root sheet. Child sheets are referenced from their parent
// through sheet instances.
type Project struct {
	RootFile string
	Sheets   map[string]*schematic.Schematic
}

// FindingKind classifies hierarchy validation findings.
type FindingKind string

const (
	// FindingUnmatchedSheetPin marks a sheet pin on a parent with no
	// hierarchical label of the same name inside the child sheet.
	FindingUnmatchedSheetPin FindingKind = "unmatched-sheet-pin"

	// FindingUnmatchedHierLabel marks a hierarchical label in a child
	// sheet with no sheet pin of the same name on any parent instance.
	FindingUnmatchedHierLabel FindingKind = "unmatched-hier-label"

	// FindingShapeMismatch marks a sheet pin and hierarchical label pair
	// whose declared directions disagree.
	FindingShapeMismatch FindingKind = "shape-mismatch"

	// FindingMissingSheet marks a sheet instance referencing a file that
	// is not part of the project.
	FindingMissingSheet FindingKind = "missing-sheet"
)

// Finding is a hierarchy validation result. A mismatch is reported, never
// silently connected or inferred.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Sheet  string      `json:"sheet"` // File name of the sheet where the problem was observed
	Name   string      `json:"name"`  // Offending sheet-pin or label name
	Detail string      `json:"detail"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", f.Kind, f.Sheet, f.Name, f.Detail)
}

// ProjectPin is one pin's membership in a project-wide net.
type ProjectPin struct {
	Sheet     string `json:"sheet"`
	Reference string `json:"reference"`
	Pin       string `json:"pin"`
}

// ProjectNet is a net spanning one or more sheets.
type ProjectNet struct {
	Name         string       `json:"name"`
	Source       NameSource   `json:"-"`
	PowerDerived bool         `json:"power_derived,omitempty"`
	Pins         []ProjectPin `json:"pins"`
}

// ProjectResult is the output of resolving a whole project: per-sheet
// results plus the cross-sheet merged nets and validation findings.
type ProjectResult struct {
	SheetResults map[string]*Result
	Nets         []*ProjectNet
	Findings     []Finding

	pinNet map[ProjectPin]int
}

// NetForPin returns the project net containing the given pin, or nil.
func (pr *ProjectResult) NetForPin(sheet, ref, pin string) *ProjectNet {
	idx, ok := pr.pinNet[ProjectPin{Sheet: sheet, Reference: ref, Pin: pin}]
	if !ok {
		return nil
	}
	return pr.Nets[idx]
}

// ArePinsConnected reports whether two pins, possibly on different sheets,
// resolve into the same project net.
func (pr *ProjectResult) ArePinsConnected(a, b ProjectPin) bool {
	ia, okA := pr.pinNet[a]
	ib, okB := pr.pinNet[b]
	return okA && okB && ia == ib
}

// sheetRoot identifies one per-sheet union-find root in project scope.
type sheetRoot struct {
	file string
	root int32
}

// projectMerge is a small second-level union-find over per-sheet roots.
// Cross-sheet merges touch few nodes, so plain maps suffice here.
type projectMerge struct {
	parent map[sheetRoot]sheetRoot
	rank   map[sheetRoot]int
}

func newProjectMerge() *projectMerge {
	return &projectMerge{
		parent: make(map[sheetRoot]sheetRoot),
		rank:   make(map[sheetRoot]int),
	}
}

func (pm *projectMerge) find(n sheetRoot) sheetRoot {
	if _, ok := pm.parent[n]; !ok {
		pm.parent[n] = n
	}
	root := n
	for pm.parent[root] != root {
		root = pm.parent[root]
	}
	for n != root {
		next := pm.parent[n]
		pm.parent[n] = root
		n = next
	}
	return root
}

func (pm *projectMerge) union(a, b sheetRoot) {
	rootA := pm.find(a)
	rootB := pm.find(b)
	if rootA == rootB {
		return
	}
	switch {
	case pm.rank[rootA] < pm.rank[rootB]:
		pm.parent[rootA] = rootB
	case pm.rank[rootA] > pm.rank[rootB]:
		pm.parent[rootB] = rootA
	default:
		pm.parent[rootB] = rootA
		pm.rank[rootA]++
	}
}

// ResolveProject resolves every sheet independently, then merges across
// sheets: global labels union by identical text regardless of sheet, and
// each sheet pin unions with the hierarchical label of the same name inside
// its child sheet. Name mismatches become Findings, never connections.
func ResolveProject(proj *Project) *ProjectResult {
	order := sheetOrder(proj)

	pr := &ProjectResult{
		SheetResults: make(map[string]*Result, len(order)),
		pinNet:       make(map[ProjectPin]int),
	}
	for _, file := range order {
		pr.SheetResults[file] = Resolve(proj.Sheets[file])
	}

	pm := newProjectMerge()

	// Global labels: one net per text, project-wide.
	globalTexts := make(map[string][]sheetRoot)
	var globalOrder []string
	for _, file := range order {
		res := pr.SheetResults[file]
		texts := make([]string, 0, len(res.globalNode))
		for text := range res.globalNode {
			texts = append(texts, text)
		}
		sort.Strings(texts)
		for _, text := range texts {
			if _, seen := globalTexts[text]; !seen {
				globalOrder = append(globalOrder, text)
			}
			globalTexts[text] = append(globalTexts[text], sheetRoot{
				file: file,
				root: res.nl.find(res.globalNode[text]),
			})
		}
	}
	for _, text := range globalOrder {
		nodes := globalTexts[text]
		for _, node := range nodes[1:] {
			pm.union(nodes[0], node)
		}
	}

	// Power nets merge across sheets by value the same way global labels do.
	powerNets := make(map[string][]sheetRoot)
	var powerOrder []string
	for _, file := range order {
		res := pr.SheetResults[file]
		for idx, net := range res.Nets {
			if !net.PowerDerived {
				continue
			}
			if _, seen := powerNets[net.Name]; !seen {
				powerOrder = append(powerOrder, net.Name)
			}
			powerNets[net.Name] = append(powerNets[net.Name], sheetRoot{
				file: file,
				root: res.nl.find(res.netRoot[idx]),
			})
		}
	}
	for _, name := range powerOrder {
		nodes := powerNets[name]
		for _, node := range nodes[1:] {
			pm.union(nodes[0], node)
		}
	}

	// Sheet pins match hierarchical labels by exact name.
	matchedHier := make(map[string]map[string]bool) // child file -> label text
	for _, file := range order {
		res := pr.SheetResults[file]
		for _, anchor := range res.sheetAnchors {
			childRes, ok := pr.SheetResults[anchor.file]
			if !ok {
				pr.Findings = append(pr.Findings, Finding{
					Kind:   FindingMissingSheet,
					Sheet:  file,
					Name:   anchor.name,
					Detail: fmt.Sprintf("sheet file %q not found in project", anchor.file),
				})
				continue
			}
			childNode, ok := childRes.hierNode[anchor.name]
			if !ok {
				pr.Findings = append(pr.Findings, Finding{
					Kind:   FindingUnmatchedSheetPin,
					Sheet:  file,
					Name:   anchor.name,
					Detail: fmt.Sprintf("no hierarchical label %q in %q", anchor.name, anchor.file),
				})
				continue
			}
			if m := matchedHier[anchor.file]; m == nil {
				matchedHier[anchor.file] = map[string]bool{anchor.name: true}
			} else {
				m[anchor.name] = true
			}
			if shape := hierShape(proj.Sheets[anchor.file], anchor.name); shape != "" &&
				anchor.shape != "" && !shapesCompatible(anchor.shape, shape) {
				pr.Findings = append(pr.Findings, Finding{
					Kind:   FindingShapeMismatch,
					Sheet:  file,
					Name:   anchor.name,
					Detail: fmt.Sprintf("sheet pin is %s, hierarchical label in %q is %s", anchor.shape, anchor.file, shape),
				})
			}
			pm.union(
				sheetRoot{file: file, root: res.nl.find(anchor.node)},
				sheetRoot{file: anchor.file, root: childRes.nl.find(childNode)},
			)
		}
	}

	// Hierarchical labels nobody connected to are dangling.
	for _, file := range order {
		res := pr.SheetResults[file]
		texts := make([]string, 0, len(res.hierNode))
		for text := range res.hierNode {
			texts = append(texts, text)
		}
		sort.Strings(texts)
		for _, text := range texts {
			if file == proj.RootFile {
				continue // Root sheet has no parent to connect to.
			}
			if !matchedHier[file][text] {
				pr.Findings = append(pr.Findings, Finding{
					Kind:   FindingUnmatchedHierLabel,
					Sheet:  file,
					Name:   text,
					Detail: "no matching sheet pin on any parent instance",
				})
			}
		}
	}

	// Group per-sheet nets by merged project root. A net's name survives the
	// merge by source precedence, first-seen within equal precedence.
	netIdx := make(map[sheetRoot]int)
	for _, file := range order {
		res := pr.SheetResults[file]
		for i, net := range res.Nets {
			key := pm.find(sheetRoot{file: file, root: res.nl.find(res.netRoot[i])})
			idx, ok := netIdx[key]
			if !ok {
				idx = len(pr.Nets)
				netIdx[key] = idx
				pr.Nets = append(pr.Nets, &ProjectNet{Name: net.Name, Source: net.Source})
			}
			pn := pr.Nets[idx]
			if net.Source > pn.Source {
				pn.Name = net.Name
				pn.Source = net.Source
			}
			if net.PowerDerived {
				pn.PowerDerived = true
			}
			for _, p := range net.Pins {
				pin := ProjectPin{Sheet: file, Reference: p.Reference, Pin: p.Pin}
				pn.Pins = append(pn.Pins, pin)
				pr.pinNet[pin] = idx
			}
		}
	}

	return pr
}

// sheetOrder returns project sheets in deterministic order: the root first,
// then depth-first in sheet-instance order, then any unreferenced files
// sorted by name.
func sheetOrder(proj *Project) []string {
	var order []string
	visited := make(map[string]bool)
	var visit func(file string)
	visit = func(file string) {
		if visited[file] {
			return
		}
		sch, ok := proj.Sheets[file]
		if !ok {
			return
		}
		visited[file] = true
		order = append(order, file)
		for i := range sch.Sheets {
			visit(sch.Sheets[i].FileName.Name)
		}
	}
	visit(proj.RootFile)

	rest := make([]string, 0, len(proj.Sheets))
	for file := range proj.Sheets {
		if !visited[file] {
			rest = append(rest, file)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// hierShape returns the declared shape of a hierarchical label, or "".
func hierShape(sch *schematic.Schematic, text string) string {
	for _, l := range sch.HierLabels {
		if l.Text == text {
			return l.Shape
		}
	}
	return ""
}

// shapesCompatible reports whether a sheet-pin direction can legally face a
// hierarchical-label direction. Bidirectional and passive accept anything;
// otherwise the declared directions must agree.
func shapesCompatible(sheetPin, hierLabel string) bool {
	if sheetPin == "bidirectional" || hierLabel == "bidirectional" ||
		sheetPin == "passive" || hierLabel == "passive" {
		return true
	}
	return sheetPin == hierLabel
}
