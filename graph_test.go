package ktb

import (
	"reflect"
	"testing"
)

func TestTaskName(t *testing.T) {
	tests := []struct {
		id   NodeID
		want string
	}{
		{NodeID{Root: "main", Kind: KindCheck, Category: CategorySource}, "ktlint-main-check"},
		{NodeID{Root: "main", Kind: KindFormat, Category: CategorySource}, "ktlint-main-format"},
		{NodeID{Root: "test", Kind: KindCheck, Category: CategorySource}, "ktlint-test-check"},
		{NodeID{Root: "test", Kind: KindFormat, Category: CategorySource}, "ktlint-test-format"},
		{NodeID{Root: ScriptRootName, Kind: KindCheck, Category: CategoryScript}, "ktlint-script-check"},
		{NodeID{Root: ScriptRootName, Kind: KindFormat, Category: CategoryScript}, "ktlint-script-format"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := TaskName(tt.id); got != tt.want {
				t.Errorf("TaskName(%+v) = %s, want %s", tt.id, got, tt.want)
			}
		})
	}
}

func twoRootGraph() Graph {
	return BuildGraph([]SourceRoot{
		{Name: "main", Category: CategorySource, Dirs: []string{"src/main/kotlin"}},
		{Name: "test", Category: CategorySource, Dirs: []string{"src/test/kotlin"}},
		{Name: ScriptRootName, Category: CategoryScript, TopLevel: []string{"."}},
	})
}

func TestGraphSummaryListing(t *testing.T) {
	got := twoRootGraph().Names(false)
	want := []string{
		ApplyToIDEAName,
		ApplyToIDEAGlobalName,
		CheckAllName,
		FormatAllName,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names(false) = %v, want %v", got, want)
	}
}

func TestGraphFullListing(t *testing.T) {
	got := twoRootGraph().Names(true)
	want := []string{
		ApplyToIDEAName,
		ApplyToIDEAGlobalName,
		CheckAllName,
		FormatAllName,
		"ktlint-main-check",
		"ktlint-main-format",
		"ktlint-script-check",
		"ktlint-script-format",
		"ktlint-test-check",
		"ktlint-test-format",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names(true) = %v, want %v", got, want)
	}
	if len(got) != 10 {
		t.Errorf("full listing has %d names, want 10", len(got))
	}
}

func TestGraphAggregateDeps(t *testing.T) {
	g := twoRootGraph()

	deps := make(map[string][]string)
	for _, a := range g.Aggregates {
		deps[a.Name] = a.Deps
	}

	wantCheck := []string{"ktlint-main-check", "ktlint-test-check", "ktlint-script-check"}
	if !reflect.DeepEqual(deps[CheckAllName], wantCheck) {
		t.Errorf("check aggregate deps = %v, want %v", deps[CheckAllName], wantCheck)
	}
	wantFormat := []string{"ktlint-main-format", "ktlint-test-format", "ktlint-script-format"}
	if !reflect.DeepEqual(deps[FormatAllName], wantFormat) {
		t.Errorf("format aggregate deps = %v, want %v", deps[FormatAllName], wantFormat)
	}
	if len(deps[ApplyToIDEAName]) != 0 || len(deps[ApplyToIDEAGlobalName]) != 0 {
		t.Error("meta tasks must not depend on leaves")
	}
}

func TestGraphCheckRunsAfterFormat(t *testing.T) {
	for _, node := range twoRootGraph().Nodes {
		switch node.ID.Kind {
		case KindCheck:
			want := []string{TaskName(NodeID{Root: node.ID.Root, Kind: KindFormat, Category: node.ID.Category})}
			if !reflect.DeepEqual(node.RunAfter, want) {
				t.Errorf("%s RunAfter = %v, want %v", node.Name, node.RunAfter, want)
			}
		case KindFormat:
			if len(node.RunAfter) != 0 {
				t.Errorf("%s RunAfter = %v, want none", node.Name, node.RunAfter)
			}
		}
	}
}

func TestGraphAdditionalRoot(t *testing.T) {
	roots := []SourceRoot{
		{Name: "main", Category: CategorySource, Dirs: []string{"src/main/kotlin"}},
	}
	base := BuildGraph(roots)

	roots = append(roots, SourceRoot{Name: "integration", Category: CategorySource, Dirs: []string{"src/integration/kotlin"}})
	extended := BuildGraph(roots)

	if len(extended.Nodes) != len(base.Nodes)+2 {
		t.Fatalf("extended graph has %d nodes, want %d", len(extended.Nodes), len(base.Nodes)+2)
	}
	names := extended.Names(true)
	for _, want := range []string{"ktlint-integration-check", "ktlint-integration-format"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("extended listing %v is missing %s", names, want)
		}
	}
	for _, a := range extended.Aggregates {
		if a.Name == CheckAllName && !reflect.DeepEqual(a.Deps, []string{"ktlint-main-check", "ktlint-integration-check"}) {
			t.Errorf("check aggregate deps = %v", a.Deps)
		}
	}
}
