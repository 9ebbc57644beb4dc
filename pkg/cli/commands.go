package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/funvibe/jype/internal/ext"
	"github.com/funvibe/jype/internal/typesystem"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

type ParseCmd struct {
	Types []string `arg:"" name:"type" help:"Type strings, e.g. 'java.util.List<java.lang.String>'."`
	JSON  bool     `help:"Print the descriptor tree as JSON." name:"json"`
}

func (c *ParseCmd) Run(env *Env) error {
	p, err := env.parser()
	if err != nil {
		return err
	}

	var (
		failed int
		trees  []descriptorJSON
	)
	for _, text := range c.Types {
		d, err := p.Parse(text)
		if err != nil {
			fmt.Fprintln(env.Stderr, env.red(err.Error()))
			failed++
			continue
		}
		if c.JSON {
			trees = append(trees, toJSON(d))
			continue
		}
		fmt.Fprintln(env.Stdout, describe(env, d))
	}

	if c.JSON {
		out, err := json.Marshal(trees, jsontext.WithIndent("  "))
		if err != nil {
			return fmt.Errorf("encoding descriptors: %w", err)
		}
		fmt.Fprintln(env.Stdout, string(out))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d types failed to parse", failed, len(c.Types))
	}
	return nil
}

type CheckCmd struct {
	Target    string `arg:"" help:"Expected type."`
	Candidate string `arg:"" help:"Type of the value being assigned."`
}

func (c *CheckCmd) Run(env *Env) error {
	p, err := env.parser()
	if err != nil {
		return err
	}
	ok, err := checkAssignable(p, c.Target, c.Candidate)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, env.verdict(ok))
	if !ok {
		return errNotAssignable
	}
	return nil
}

// describe renders a descriptor as "canonical (Kind)".
func describe(env *Env, d typesystem.Descriptor) string {
	return env.cyan(d.String()) + " " + env.dim("("+d.Kind().String()+")")
}

func checkAssignable(p *typesystem.Parser, target, candidate string) (bool, error) {
	t, err := p.Parse(target)
	if err != nil {
		return false, fmt.Errorf("target: %w", err)
	}
	c, err := p.Parse(candidate)
	if err != nil {
		return false, fmt.Errorf("candidate: %w", err)
	}
	return t.IsAssignableFrom(c), nil
}

type FlatCmd struct {
	Names []string `arg:"" name:"name" help:"Type names in pre-order, e.g. java.util.Map java.lang.String int[]."`
}

func (c *FlatCmd) Run(env *Env) error {
	lt, err := env.types()
	if err != nil {
		return err
	}
	handles := make([]typesystem.Handle, len(c.Names))
	for i, name := range c.Names {
		h, ok := resolveHandle(lt.registry, name)
		if !ok {
			return typesystem.NewUnknownTypeError(name)
		}
		handles[i] = h
	}
	d, err := typesystem.FromHandles(handles...)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, describe(env, d))
	return nil
}

// resolveHandle looks name up in reg, following reg's aliases for the part
// before any "[]" suffix.
func resolveHandle(reg typesystem.Registry, name string) (typesystem.Handle, bool) {
	if h, ok := reg.ResolveName(name); ok {
		return h, true
	}
	src, ok := reg.(typesystem.AliasSource)
	if !ok {
		return nil, false
	}
	base := strings.TrimRight(name, "[]")
	target, ok := src.GetAlias(base)
	if !ok {
		return nil, false
	}
	return reg.ResolveName(target + name[len(base):])
}

type SnapshotCmd struct {
	Save   SnapshotSaveCmd   `cmd:"" help:"Store the types declared in jype.yaml."`
	List   SnapshotListCmd   `cmd:"" help:"List stored snapshots."`
	Delete SnapshotDeleteCmd `cmd:"" help:"Delete a stored snapshot."`
}

type SnapshotSaveCmd struct {
	Label string `help:"Free-form label stored with the snapshot." short:"l"`
}

func (c *SnapshotSaveCmd) Run(env *Env) error {
	lt, err := env.types()
	if err != nil {
		return err
	}
	store, err := ext.OpenStore(env.ctx, env.globals.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveSnapshot(env.ctx, lt.table, c.Label)
	if err != nil {
		return err
	}
	env.Log.Printf("saved %d types to %s", len(lt.table.Types()), env.globals.DB)
	fmt.Fprintln(env.Stdout, id)
	return nil
}

type SnapshotListCmd struct{}

func (c *SnapshotListCmd) Run(env *Env) error {
	store, err := ext.OpenStore(env.ctx, env.globals.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.ListSnapshots(env.ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(env.Stdout, env.dim("no snapshots"))
		return nil
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPES\tCREATED\tLABEL")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", info.ID, info.Types, info.Created.Format("2006-01-02 15:04:05"), info.Label)
	}
	return tw.Flush()
}

type SnapshotDeleteCmd struct {
	ID string `arg:"" help:"Snapshot id."`
}

func (c *SnapshotDeleteCmd) Run(env *Env) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("snapshot id %q: %w", c.ID, err)
	}
	store, err := ext.OpenStore(env.ctx, env.globals.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSnapshot(env.ctx, id); err != nil {
		if errors.Is(err, ext.ErrSnapshotNotFound) {
			return fmt.Errorf("no snapshot %s in %s", id, env.globals.DB)
		}
		return err
	}
	return nil
}

// descriptorJSON is the --json shape of a descriptor.
type descriptorJSON struct {
	Type   string           `json:"type"`
	Kind   string           `json:"kind"`
	Elem   string           `json:"elem,omitempty"`
	Dims   int              `json:"dims,omitzero"`
	Params []descriptorJSON `json:"params,omitempty"`
}

func toJSON(d typesystem.Descriptor) descriptorJSON {
	out := descriptorJSON{Type: d.String(), Kind: d.Kind().String()}
	switch d := d.(type) {
	case typesystem.Array:
		out.Elem = d.Elem().Name()
		out.Dims = d.Dims()
	case typesystem.Generic:
		for _, p := range d.Params() {
			out.Params = append(out.Params, toJSON(p))
		}
	}
	return out
}
