package ktb

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSource(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("class Example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCategoryExtensions(t *testing.T) {
	if got := CategorySource.Extensions(); !reflect.DeepEqual(got, []string{".kt"}) {
		t.Errorf("source extensions = %v", got)
	}
	if got := CategoryScript.Extensions(); !reflect.DeepEqual(got, []string{".kts"}) {
		t.Errorf("script extensions = %v", got)
	}
}

func TestResolveSourceRoot(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, "src/main/kotlin/B.kt")
	writeSource(t, base, "src/main/kotlin/com/app/A.kt")
	writeSource(t, base, "src/main/kotlin/readme.md")
	writeSource(t, base, "src/main/kotlin/build.gradle.kts")

	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"src/main/kotlin"},
	})
	want := []string{
		"src/main/kotlin/B.kt",
		"src/main/kotlin/com/app/A.kt",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveDeclarationOrder(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, "second/One.kt")
	writeSource(t, base, "first/Two.kt")

	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"second", "first"},
	})
	want := []string{"second/One.kt", "first/Two.kt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveDeduplicates(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, "src/App.kt")

	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"src"},
		Extra:    []string{"src/App.kt", "src"},
	})
	want := []string{"src/App.kt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveWhitespacePaths(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, "sub dir/my file.kt")

	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"sub dir"},
	})
	want := []string{"sub dir/my file.kt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveMissingDir(t *testing.T) {
	base := t.TempDir()
	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"does/not/exist"},
		Extra:    []string{"also/missing"},
	})
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty", got)
	}
}

func TestResolveSkipsHiddenAndVendor(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, ".hidden/X.kt")
	writeSource(t, base, "vendor/Y.kt")
	writeSource(t, base, "node_modules/Z.kt")
	writeSource(t, base, "ok/W.kt")

	got := Resolver{BaseDir: base}.Resolve(SourceRoot{
		Name:     "main",
		Category: CategorySource,
		Dirs:     []string{"."},
	})
	want := []string{"ok/W.kt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveScriptRoot(t *testing.T) {
	base := t.TempDir()
	writeSource(t, base, "build.gradle.kts")
	writeSource(t, base, "settings.gradle.kts")
	writeSource(t, base, "Notes.kt")
	writeSource(t, base, "sub/extra.gradle.kts")

	resolver := Resolver{BaseDir: base}
	root := SourceRoot{
		Name:     ScriptRootName,
		Category: CategoryScript,
		TopLevel: []string{"."},
	}

	got := resolver.Resolve(root)
	want := []string{"build.gradle.kts", "settings.gradle.kts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}

	root.Extra = []string{"sub"}
	got = resolver.Resolve(root)
	want = []string{"build.gradle.kts", "settings.gradle.kts", "sub/extra.gradle.kts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() with extra dir = %v, want %v", got, want)
	}

	root.Extra = []string{"sub/extra.gradle.kts"}
	got = resolver.Resolve(root)
	want = []string{"build.gradle.kts", "settings.gradle.kts", "sub/extra.gradle.kts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() with extra file = %v, want %v", got, want)
	}
}
