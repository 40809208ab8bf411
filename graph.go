package ktb

import (
	"fmt"
	"sort"
)

// Kind is the work a leaf node performs.
type Kind string

const (
	// KindCheck reports violations without touching files.
	KindCheck Kind = "check"
	// KindFormat corrects violations in place.
	KindFormat Kind = "format"
)

// NodeID identifies a leaf node: one root, one kind, one category.
type NodeID struct {
	Root     string
	Kind     Kind
	Category Category
}

// TaskName derives the task name for a node identity. The mapping is a pure
// function of the identity: ktlint-<root>-<kind>. The category needs no
// segment of its own because the script category owns the reserved root name.
func TaskName(id NodeID) string {
	return fmt.Sprintf("ktlint-%s-%s", id.Root, id.Kind)
}

// Aggregate and meta task names.
const (
	CheckAllName          = "ktlint-check"
	FormatAllName         = "ktlint-format"
	ApplyToIDEAName       = "ktlint-apply-to-idea"
	ApplyToIDEAGlobalName = "ktlint-apply-to-idea-global"
)

// Node is one leaf of the task graph.
type Node struct {
	ID   NodeID
	Name string
	Root SourceRoot

	// RunAfter names sibling nodes that must complete first when they are
	// part of the same invocation. The check leaf for a root runs after
	// its format leaf, so a check never reads files mid-rewrite.
	RunAfter []string

	// Hidden leaves are owned by their aggregates and left out of the
	// summary listing.
	Hidden bool
}

// AggregateNode groups leaves under one surfaced name. It has no file inputs
// of its own, only dependency edges.
type AggregateNode struct {
	Name  string
	Usage string
	Deps  []string
}

// Graph is the complete task surface for one configuration.
type Graph struct {
	Nodes      []Node
	Aggregates []AggregateNode
}

// BuildGraph constructs one check and one format leaf per root plus the
// aggregate and meta layer. Registering another root adds its leaves and
// extends the aggregates without changes elsewhere.
func BuildGraph(roots []SourceRoot) Graph {
	var g Graph
	var checkNames, formatNames []string

	for _, root := range roots {
		formatID := NodeID{Root: root.Name, Kind: KindFormat, Category: root.Category}
		checkID := NodeID{Root: root.Name, Kind: KindCheck, Category: root.Category}
		formatName := TaskName(formatID)
		checkName := TaskName(checkID)

		g.Nodes = append(g.Nodes,
			Node{ID: formatID, Name: formatName, Root: root, Hidden: true},
			Node{ID: checkID, Name: checkName, Root: root, RunAfter: []string{formatName}, Hidden: true},
		)
		formatNames = append(formatNames, formatName)
		checkNames = append(checkNames, checkName)
	}

	g.Aggregates = []AggregateNode{
		{Name: CheckAllName, Usage: "check all Kotlin sources with ktlint", Deps: checkNames},
		{Name: FormatAllName, Usage: "format all Kotlin sources with ktlint", Deps: formatNames},
		{Name: ApplyToIDEAName, Usage: "export the ktlint style to the project IDEA configuration"},
		{Name: ApplyToIDEAGlobalName, Usage: "export the ktlint style to the global IDEA configuration"},
	}
	return g
}

// Names returns the task names in sorted order. The summary listing carries
// only aggregate and meta names; showAll includes the hidden leaves.
func (g Graph) Names(showAll bool) []string {
	var names []string
	for _, n := range g.Nodes {
		if showAll || !n.Hidden {
			names = append(names, n.Name)
		}
	}
	for _, a := range g.Aggregates {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}
