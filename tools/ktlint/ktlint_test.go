package ktlint

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hallgrim/ktb"
)

func TestParseReport(t *testing.T) {
	data := []byte(`[
  {
    "file": "src/main/kotlin/App.kt",
    "errors": [
      {"line": 3, "column": 17, "message": "Unnecessary space(s)", "rule": "no-multi-spaces"},
      {"line": 9, "column": 1, "message": "Wildcard import (cannot be auto-corrected)", "rule": "no-wildcard-imports"}
    ]
  },
  {
    "file": "build.gradle.kts",
    "errors": [
      {"line": 1, "column": 1, "message": "Redundant curly braces", "rule": "string-template"}
    ]
  }
]`)

	violations, err := ParseReport(data)
	if err != nil {
		t.Fatalf("ParseReport(): %v", err)
	}
	want := []ktb.Violation{
		{File: "src/main/kotlin/App.kt", Line: 3, Col: 17, Rule: "no-multi-spaces", Message: "Unnecessary space(s)", CanAutoCorrect: true},
		{File: "src/main/kotlin/App.kt", Line: 9, Col: 1, Rule: "no-wildcard-imports", Message: "Wildcard import (cannot be auto-corrected)", CanAutoCorrect: false},
		{File: "build.gradle.kts", Line: 1, Col: 1, Rule: "string-template", Message: "Redundant curly braces", CanAutoCorrect: true},
	}
	if !reflect.DeepEqual(violations, want) {
		t.Errorf("ParseReport() = %+v, want %+v", violations, want)
	}
}

func TestParseReportEmpty(t *testing.T) {
	for _, data := range []string{"", "  \n", "[]"} {
		violations, err := ParseReport([]byte(data))
		if err != nil {
			t.Fatalf("ParseReport(%q): %v", data, err)
		}
		if len(violations) != 0 {
			t.Errorf("ParseReport(%q) = %v, want none", data, violations)
		}
	}
}

func TestParseReportMalformed(t *testing.T) {
	_, err := ParseReport([]byte("{oops"))
	if err == nil {
		t.Fatal("ParseReport() = nil error for malformed output")
	}
	if !strings.Contains(err.Error(), "decode ktlint report") {
		t.Errorf("error %q does not describe the decode failure", err)
	}
}

func TestBuildArgs(t *testing.T) {
	res, err := ktb.NewPolicy(nil).Resolve("0.45.2")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		req    ktb.EngineRequest
		format bool
		want   []string
	}{
		{
			name: "plain check",
			req: ktb.EngineRequest{
				Files:      []string{"src/App.kt"},
				Resolution: res,
			},
			want: []string{"--reporter=json", "src/App.kt"},
		},
		{
			name: "format rewrites in place",
			req: ktb.EngineRequest{
				Files:      []string{"src/App.kt", "src/Util.kt"},
				Resolution: res,
			},
			format: true,
			want:   []string{"--reporter=json", "-F", "src/App.kt", "src/Util.kt"},
		},
		{
			name: "all flags",
			req: ktb.EngineRequest{
				Files:             []string{"build.gradle.kts"},
				Resolution:        res,
				ExperimentalRules: true,
				DisabledRules:     []string{"no-wildcard-imports", "import-ordering"},
				Android:           true,
				EditorConfig:      ".editorconfig",
			},
			want: []string{
				"--reporter=json",
				"--experimental",
				"--android",
				"--disabled_rules=no-wildcard-imports,import-ordering",
				"--editorconfig=.editorconfig",
				"build.gradle.kts",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs(tt.req, tt.format)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}
