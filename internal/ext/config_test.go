package ext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/jype/internal/config"
	"github.com/funvibe/jype/internal/symbols"
	"github.com/funvibe/jype/internal/typesystem"
)

func TestParseConfig_ValidMinimal(t *testing.T) {
	yaml := `
types:
  - name: com.acme.Animal
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(cfg.Types))
	}
	decl := cfg.Types[0]
	if decl.Name != "com.acme.Animal" {
		t.Errorf("name = %q, want com.acme.Animal", decl.Name)
	}
	if decl.Arity != 0 {
		t.Errorf("arity = %d, want 0", decl.Arity)
	}
	// Supertypes default to java.lang.Object
	if len(decl.Supertypes) != 1 || decl.Supertypes[0] != config.ObjectTypeName {
		t.Errorf("supertypes = %v, want [%s]", decl.Supertypes, config.ObjectTypeName)
	}
}

func TestParseConfig_ValidFull(t *testing.T) {
	yaml := `
types:
  - name: com.acme.Animal
  - name: com.acme.Dog
    supertypes: [com.acme.Animal, java.lang.Comparable]
  - name: com.acme.Cage
    arity: 1
    supertypes: [java.util.Collection]
aliases:
  Dog: com.acme.Dog
  Cage: com.acme.Cage
proto:
  import_paths: [protos]
  files: [zoo.proto]
go:
  packages: [./zoo/...]
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(cfg.Types))
	}
	if cfg.Types[2].Arity != 1 {
		t.Errorf("Cage arity = %d, want 1", cfg.Types[2].Arity)
	}
	if cfg.Aliases["Dog"] != "com.acme.Dog" {
		t.Errorf("aliases = %v", cfg.Aliases)
	}
	if cfg.Proto == nil || len(cfg.Proto.Files) != 1 || cfg.Proto.Files[0] != "zoo.proto" {
		t.Errorf("proto = %+v", cfg.Proto)
	}
	if cfg.Go == nil || cfg.Go.Dir != "." || cfg.Go.Packages[0] != "./zoo/..." {
		t.Errorf("go = %+v", cfg.Go)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "types: [", "parsing test.yaml"},
		{"missing name", "types:\n  - arity: 1\n", "types[0].name: required"},
		{"negative arity", "types:\n  - name: A\n    arity: -1\n", "types[0].arity: must be at least 0"},
		{"huge arity", "types:\n  - name: A\n    arity: 100\n", "must be at most 32"},
		{"empty supertype", "types:\n  - name: A\n    supertypes: ['']\n", "required"},
		{"invalid name", "types:\n  - name: com.acme.Bad-Name\n", "invalid type name"},
		{"duplicate", "types:\n  - name: A\n  - name: A\n", "already declared at types[0]"},
		{"self supertype", "types:\n  - name: A\n    supertypes: [A]\n", "cannot extend itself"},
		{"array supertype", "types:\n  - name: A\n    supertypes: ['int[]']\n", "is an array type"},
		{"empty alias target", "aliases:\n  A: ''\n", "required"},
		{"invalid alias", "aliases:\n  'my alias': java.lang.Object\n", "invalid alias"},
		{"proto without files", "proto:\n  import_paths: [x]\n", "proto.files: required"},
		{"go without packages", "go:\n  dir: x\n", "go.packages: required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	yaml := `
types:
  - name: com.acme.Animal
  - name: com.acme.Dog
    supertypes: [com.acme.Animal]
  - name: com.acme.Cage
    arity: 1
    supertypes: [java.util.Collection]
aliases:
  Dog: com.acme.Dog
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := symbols.NewSymbolTable()
	if err := cfg.Apply(st, "test.yaml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sym := st.MustLookup("com.acme.Dog"); sym.Origin() != "test.yaml" {
		t.Errorf("origin = %q, want test.yaml", sym.Origin())
	}

	target, err := typesystem.Parse(st, "java.util.List<com.acme.Animal>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	candidate, err := typesystem.Parse(st, "java.util.ArrayList<Dog>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.IsAssignableFrom(candidate) {
		t.Errorf("%s should be assignable from %s", target, candidate)
	}

	cage, err := typesystem.Parse(st, "java.lang.Iterable<com.acme.Dog>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dogs, err := typesystem.Parse(st, "com.acme.Cage<com.acme.Dog>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cage.IsAssignableFrom(dogs) {
		t.Errorf("%s should be assignable from %s", cage, dogs)
	}
}

func TestConfigApply_UnknownSupertype(t *testing.T) {
	// Supertypes must be declared before their subtypes.
	yaml := `
types:
  - name: com.acme.Dog
    supertypes: [com.acme.Animal]
  - name: com.acme.Animal
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = cfg.Apply(symbols.NewSymbolTable(), "test.yaml")
	if err == nil {
		t.Fatal("expected error for forward supertype reference")
	}
	if !strings.Contains(err.Error(), "unknown supertype com.acme.Animal") {
		t.Errorf("error = %q", err)
	}
}

func TestConfigApply_UnknownAliasTarget(t *testing.T) {
	cfg, err := ParseConfig([]byte("aliases:\n  Ghost: com.acme.Ghost\n"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Apply(symbols.NewSymbolTable(), "test.yaml"); err == nil {
		t.Fatal("expected error for unknown alias target")
	}
}

func TestLoadConfig_ResolvesPaths(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "jype.yaml")
	content := `
proto:
  files: [zoo.proto]
go:
  dir: gosrc
  packages: [./...]
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Proto.ImportPaths) != 1 || cfg.Proto.ImportPaths[0] != tmpDir {
		t.Errorf("import_paths = %v, want [%s]", cfg.Proto.ImportPaths, tmpDir)
	}
	if cfg.Go.Dir != filepath.Join(tmpDir, "gosrc") {
		t.Errorf("go.dir = %q", cfg.Go.Dir)
	}

	if _, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindConfig(t *testing.T) {
	t.Setenv(config.ConfigEnvVar, "")

	// Create a temp directory structure
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Write jype.yaml at the top level
	cfgPath := filepath.Join(tmpDir, "jype.yaml")
	if err := os.WriteFile(cfgPath, []byte("types: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// FindConfig from deep subdirectory should find it
	found, err := FindConfig(subDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}

	// jype.yml is accepted too
	otherDir := t.TempDir()
	ymlPath := filepath.Join(otherDir, "jype.yml")
	if err := os.WriteFile(ymlPath, []byte("types: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err = FindConfig(otherDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != ymlPath {
		t.Errorf("found = %q, want %q", found, ymlPath)
	}

	// FindConfig from a totally different directory should not find it
	found, err = FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("expected empty, got %q", found)
	}
}

func TestFindConfig_EnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(cfgPath, []byte("types: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.ConfigEnvVar, cfgPath)

	found, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found = %q, want %q", found, cfgPath)
	}

	t.Setenv(config.ConfigEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := FindConfig("."); err == nil {
		t.Error("expected error for missing config named by environment")
	}
}
