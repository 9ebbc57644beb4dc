package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/funvibe/jype/internal/ext"
	"github.com/funvibe/jype/internal/symbols"
	"github.com/funvibe/jype/internal/typesystem"
	"github.com/google/uuid"
)

// loadedTypes is the registry assembled from the global flags.
type loadedTypes struct {
	table    *symbols.SymbolTable
	registry typesystem.Registry
	sources  []string
}

// types loads the symbol table, proto and Go registries once per run.
// The symbol table comes first in the chain, so its names win.
func (env *Env) types() (*loadedTypes, error) {
	if env.loaded != nil {
		return env.loaded, nil
	}
	g := env.globals
	lt := &loadedTypes{}

	cfg, cfgPath, err := env.loadConfig()
	if err != nil {
		return nil, err
	}

	if g.UseSnapshot != "" {
		lt.table, err = env.loadSnapshot(g.UseSnapshot)
		if err != nil {
			return nil, err
		}
		lt.sources = append(lt.sources, "snapshot "+g.UseSnapshot)
	} else {
		lt.table = symbols.NewSymbolTable()
		if cfg != nil {
			if err := cfg.Apply(lt.table, cfgPath); err != nil {
				return nil, err
			}
			env.Log.Printf("loaded %d types from %s", len(cfg.Types), cfgPath)
			lt.sources = append(lt.sources, cfgPath)
		}
	}
	chain := typesystem.Chain{lt.table}

	protoFiles, importPaths := protoSources(g.Proto, g.ProtoPath)
	if cfg != nil && cfg.Proto != nil {
		protoFiles = append(protoFiles, cfg.Proto.Files...)
		importPaths = append(importPaths, cfg.Proto.ImportPaths...)
	}
	if len(protoFiles) > 0 {
		reg, err := ext.LoadProtoFiles(importPaths, protoFiles...)
		if err != nil {
			return nil, err
		}
		env.Log.Printf("loaded %d proto files", len(protoFiles))
		chain = append(chain, reg)
		lt.sources = append(lt.sources, protoFiles...)
	}

	if len(g.Go) > 0 {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		reg, err := ext.LoadGoRegistry(env.ctx, dir, g.Go...)
		if err != nil {
			return nil, err
		}
		env.Log.Printf("loaded Go packages %v", g.Go)
		chain = append(chain, reg)
		lt.sources = append(lt.sources, g.Go...)
	}
	if cfg != nil && cfg.Go != nil {
		reg, err := ext.LoadGoRegistry(env.ctx, cfg.Go.Dir, cfg.Go.Packages...)
		if err != nil {
			return nil, err
		}
		env.Log.Printf("loaded Go packages %v from %s", cfg.Go.Packages, cfg.Go.Dir)
		chain = append(chain, reg)
		lt.sources = append(lt.sources, cfg.Go.Packages...)
	}

	lt.registry = chain
	env.loaded = lt
	return lt, nil
}

// protoSources makes absolute .proto paths relative to the import path
// that contains them. Without import paths, each file's directory is used.
func protoSources(files, importPaths []string) ([]string, []string) {
	paths := append([]string(nil), importPaths...)
	names := make([]string, 0, len(files))
	for _, f := range files {
		if !filepath.IsAbs(f) {
			names = append(names, f)
			continue
		}
		name := ""
		for _, ip := range paths {
			if rel, err := filepath.Rel(ip, f); err == nil && !strings.HasPrefix(rel, "..") {
				name = rel
				break
			}
		}
		if name == "" {
			paths = append(paths, filepath.Dir(f))
			name = filepath.Base(f)
		}
		names = append(names, name)
	}
	return names, paths
}

// loadConfig reads --config, or the jype.yaml found from the working
// directory. A missing config is not an error.
func (env *Env) loadConfig() (*ext.Config, string, error) {
	path := env.globals.Config
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("resolving working directory: %w", err)
		}
		path, err = ext.FindConfig(dir)
		if err != nil {
			return nil, "", err
		}
		if path == "" {
			env.Log.Printf("no jype.yaml found")
			return nil, "", nil
		}
	}
	cfg, err := ext.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func (env *Env) loadSnapshot(raw string) (*symbols.SymbolTable, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot id %q: %w", raw, err)
	}
	store, err := ext.OpenStore(env.ctx, env.globals.DB)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	env.Log.Printf("loading snapshot %s from %s", id, env.globals.DB)
	return store.LoadSnapshot(env.ctx, id)
}

// parser returns a type parser over the loaded registry.
func (env *Env) parser() (*typesystem.Parser, error) {
	lt, err := env.types()
	if err != nil {
		return nil, err
	}
	return typesystem.NewParser(lt.registry), nil
}
