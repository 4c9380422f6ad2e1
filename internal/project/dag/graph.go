// Package dag builds the module dependency graph for a project: duplicate
// detection, missing/self imports, and cycle detection. This is the "module
// loader" collaborator the semantic analyzer calls into when resolving
// imports (§4.3 step 3) — circular imports surface as SemanticError.ImportError,
// not a separate subsystem of errors.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"aetherscript/internal/diag"
	"aetherscript/internal/project"
	"aetherscript/internal/source"
)

// Graph is the adjacency-list dependency graph over a project's modules.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to
	Indeg   []int        // in-degree for Kahn's algorithm, present modules only
	Present []bool       // whether the module actually exists (vs. only imported)
}

// ModuleNode is a module fed into BuildGraph.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Broken   bool
	FirstErr *diag.Diagnostic
}

// ModuleSlot is the indexed, deduplicated view of a ModuleNode.
type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

// BuildGraph indexes modules, rejects duplicates, and resolves import edges,
// reporting unknown/self imports as they're discovered.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				d := diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.SemaImportError,
					Primary:  meta.Span,
					Message:  fmt.Sprintf("duplicate module %q", meta.Path),
				}
				if slot.Meta.Span != (source.Span{}) {
					d = d.WithNote(slot.Meta.Span, fmt.Sprintf("previous declaration of %q", slot.Meta.Path))
				}
				node.Reporter.Report(d)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.Broken = node.Broken
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			if dep.Path == "" {
				continue
			}
			toID, ok := idx.NameToID[dep.Path]
			if !ok {
				reportImportError(slot.Reporter, dep.Span, fmt.Sprintf("module %q imports unknown module %q", slot.Meta.Path, dep.Path))
				continue
			}
			if ModuleID(from) == toID {
				reportImportError(slot.Reporter, dep.Span, fmt.Sprintf("module %q imports itself", slot.Meta.Path))
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[int(toID)] {
				g.Indeg[int(toID)]++
			} else {
				reportImportError(slot.Reporter, dep.Span, fmt.Sprintf("module %q imports missing module %q", slot.Meta.Path, idx.IDToName[int(toID)]))
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

func reportImportError(r diag.Reporter, span source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaImportError, Primary: span, Message: msg})
}

// ReportCycles emits one diagnostic per module participating in an import
// cycle found by Topo, each naming the full cycle.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", slot.Meta.Path, summary)
		reportImportError(slot.Reporter, slot.Meta.Span, msg)
	}
}

// ReportBrokenDeps reports a "dependency has errors" diagnostic to every
// module that directly imports a module already marked Broken. It does not
// mark the importers Broken, so the report does not travel further up.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		slotFrom := &slots[i]
		if !slotFrom.Present || slotFrom.Reporter == nil || len(slotFrom.Meta.Imports) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(slotFrom.Meta.Imports))
		for _, imp := range slotFrom.Meta.Imports {
			toID, ok := idx.NameToID[imp.Path]
			if !ok {
				continue
			}
			depSlot := slots[int(toID)]
			if !depSlot.Broken {
				continue
			}
			key := imp.Path + "|" + imp.Span.String()
			if _, seen := emitted[key]; seen {
				continue
			}
			emitted[key] = struct{}{}

			d := diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.SemaImportError,
				Primary:  imp.Span,
				Message:  fmt.Sprintf("dependency module %q has errors", imp.Path),
			}
			if depSlot.FirstErr != nil {
				d = d.WithNote(depSlot.FirstErr.Primary, fmt.Sprintf("first error in dependency: %s", depSlot.FirstErr.Message))
			}
			slotFrom.Reporter.Report(d)
		}
	}
}
