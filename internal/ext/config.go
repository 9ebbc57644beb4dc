// Package ext loads type declarations from outside the built-in prelude.
//
// It provides the registries and persistence that sit around the core
// descriptor algebra:
//   - Parsing and validating jype.yaml type declarations
//   - A registry over Go packages, via go/packages and go/types
//   - A registry over protobuf messages and enums
//   - A sqlite store for symbol table snapshots
package ext

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/funvibe/jype/internal/config"
	"github.com/funvibe/jype/internal/symbols"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config represents the top-level jype.yaml configuration.
type Config struct {
	// Types are declared in order; a supertype must be a prelude type or
	// appear earlier in the list.
	Types []TypeDecl `yaml:"types" validate:"dive"`

	// Aliases maps short names to canonical type names (e.g. "Animal" -> "com.acme.Animal").
	Aliases map[string]string `yaml:"aliases,omitempty" validate:"dive,keys,required,endkeys,required"`

	// Proto lists .proto sources whose messages and enums become resolvable.
	Proto *ProtoSource `yaml:"proto,omitempty"`

	// Go lists Go packages whose named types become resolvable.
	Go *GoSource `yaml:"go,omitempty"`
}

// TypeDecl declares one nominal type.
type TypeDecl struct {
	// Name is the canonical dotted name (e.g. "com.acme.Cage").
	Name string `yaml:"name" validate:"required"`

	// Arity is the number of generic parameters. Defaults to 0.
	Arity int `yaml:"arity,omitempty" validate:"gte=0,lte=32"`

	// Supertypes are the direct nominal supertypes. Defaults to java.lang.Object.
	Supertypes []string `yaml:"supertypes,omitempty" validate:"dive,required"`
}

// ProtoSource describes .proto files to parse, relative to jype.yaml.
type ProtoSource struct {
	ImportPaths []string `yaml:"import_paths,omitempty" validate:"dive,required"`
	Files       []string `yaml:"files" validate:"required,min=1,dive,required"`
}

// GoSource describes Go packages to load, relative to jype.yaml.
type GoSource struct {
	Dir      string   `yaml:"dir,omitempty"`
	Packages []string `yaml:"packages" validate:"required,min=1,dive,required"`
}

// LoadConfig reads and parses a jype.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// ParseConfig parses jype.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, describeValidation(err))
	}
	if err := cfg.check(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for jype.yaml starting from dir and walking up
// to parent directories. The JYPE_CONFIG environment variable takes
// precedence when set. Returns an empty path and nil error if nothing is found.
func FindConfig(dir string) (string, error) {
	if env := os.Getenv(config.ConfigEnvVar); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%s: %w", config.ConfigEnvVar, err)
		}
		return env, nil
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// check checks the configuration for semantic errors that struct tags
// cannot express.
func (c *Config) check(path string) error {
	seen := make(map[string]int)
	for i, decl := range c.Types {
		if !isTypeName(decl.Name) {
			return fmt.Errorf("%s: types[%d]: invalid type name %q", path, i, decl.Name)
		}
		if prev, ok := seen[decl.Name]; ok {
			return fmt.Errorf("%s: types[%d]: %s already declared at types[%d]", path, i, decl.Name, prev)
		}
		seen[decl.Name] = i

		for j, sup := range decl.Supertypes {
			if sup == decl.Name {
				return fmt.Errorf("%s: types[%d].supertypes[%d]: %s cannot extend itself", path, i, j, decl.Name)
			}
			if strings.HasSuffix(sup, config.ArraySuffix) {
				return fmt.Errorf("%s: types[%d].supertypes[%d]: %s is an array type", path, i, j, sup)
			}
		}
	}

	for alias := range c.Aliases {
		if !isTypeName(alias) {
			return fmt.Errorf("%s: aliases: invalid alias %q", path, alias)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	for i := range c.Types {
		if len(c.Types[i].Supertypes) == 0 && c.Types[i].Name != config.ObjectTypeName {
			c.Types[i].Supertypes = []string{config.ObjectTypeName}
		}
	}
	if c.Go != nil && c.Go.Dir == "" {
		c.Go.Dir = "."
	}
}

// resolvePaths makes relative source paths relative to the config directory.
func (c *Config) resolvePaths(configDir string) {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(configDir, p)
	}
	if c.Proto != nil {
		for i := range c.Proto.ImportPaths {
			c.Proto.ImportPaths[i] = abs(c.Proto.ImportPaths[i])
		}
		if len(c.Proto.ImportPaths) == 0 {
			c.Proto.ImportPaths = []string{configDir}
		}
	}
	if c.Go != nil {
		c.Go.Dir = abs(c.Go.Dir)
	}
}

// Apply declares the configured types and aliases in st. Types are defined
// in declaration order, so a supertype must already be known when its
// subtype is declared. origin is recorded on every defined symbol.
func (c *Config) Apply(st *symbols.SymbolTable, origin string) error {
	for i, decl := range c.Types {
		if _, err := st.DefineType(decl.Name, decl.Arity, decl.Supertypes, origin); err != nil {
			return fmt.Errorf("%s: types[%d]: %w", origin, i, err)
		}
	}
	for _, alias := range slices.Sorted(maps.Keys(c.Aliases)) {
		if err := st.DefineAlias(alias, c.Aliases[alias]); err != nil {
			return fmt.Errorf("%s: aliases: %w", origin, err)
		}
	}
	return nil
}

// describeValidation flattens validator errors into one readable error.
func describeValidation(err error) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msgs = append(msgs, fieldPath(ve.Namespace())+": "+formatValidationError(ve))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// fieldPath turns "Config.Types[0].Name" into "types[0].name".
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return strings.ToLower(ns)
	}
	return strings.ToLower(rest)
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// isTypeName reports whether name matches [A-Za-z][A-Za-z0-9.]*.
func isTypeName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '.'):
		default:
			return false
		}
	}
	return true
}
