package engine

import (
	"sort"
	"strings"

	"github.com/hlop3z/schemakit/internal/alerr"
	"github.com/hlop3z/schemakit/internal/ast"
)

// OrderCreates reorders each run of consecutive CreateTable operations so a
// table is created after the tables its foreign keys reference. Tables with
// no dependency between them keep their original order, and every other
// operation keeps its position. A reference cycle inside a run is an error.
func OrderCreates(ops []ast.Operation) ([]ast.Operation, error) {
	out := make([]ast.Operation, 0, len(ops))
	var run []*ast.CreateTable

	flush := func() error {
		sorted, err := sortCreates(run)
		if err != nil {
			return err
		}
		for _, ct := range sorted {
			out = append(out, ct)
		}
		run = run[:0]
		return nil
	}

	for _, op := range ops {
		if ct, ok := op.(*ast.CreateTable); ok {
			run = append(run, ct)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortCreates is Kahn's algorithm over the run, always picking the earliest
// ready table so independent tables stay in declaration order.
func sortCreates(run []*ast.CreateTable) ([]*ast.CreateTable, error) {
	if len(run) < 2 {
		return run, nil
	}

	index := make(map[string]int, len(run))
	for i, ct := range run {
		index[strings.ToLower(ct.Name)] = i
	}

	inDegree := make([]int, len(run))
	dependents := make([][]int, len(run))
	for i, ct := range run {
		seen := map[int]bool{}
		for _, ref := range references(ct) {
			j, ok := index[strings.ToLower(ref)]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]*ast.CreateTable, 0, len(run))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		result = append(result, run[i])
		for _, dep := range dependents[i] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(result) != len(run) {
		var cycle []string
		for i, d := range inDegree {
			if d > 0 {
				cycle = append(cycle, run[i].Name)
			}
		}
		return nil, alerr.New(alerr.ErrSchemaInvalid, "circular foreign key dependency between new tables").
			With("tables", strings.Join(cycle, ", ")).
			WithHelp("create one table first and add the foreign key afterwards")
	}
	return result, nil
}

// references lists the tables ct's foreign keys point at.
func references(ct *ast.CreateTable) []string {
	var refs []string
	for _, fk := range ct.ForeignKeys {
		if fk != nil {
			refs = append(refs, fk.RefTable)
		}
	}
	return refs
}
