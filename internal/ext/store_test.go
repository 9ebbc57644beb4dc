package ext

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/funvibe/jype/internal/symbols"
	"github.com/funvibe/jype/internal/typesystem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(context.Background(), filepath.Join(t.TempDir(), "jype.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func zooTable(t *testing.T) *symbols.SymbolTable {
	t.Helper()
	st := symbols.NewSymbolTable()
	_, err := st.DefineType("com.acme.Animal", 0, []string{"java.lang.Object"}, "test")
	require.NoError(t, err)
	_, err = st.DefineType("com.acme.Dog", 0, []string{"com.acme.Animal", "java.lang.Comparable"}, "test")
	require.NoError(t, err)
	_, err = st.DefineType("com.acme.Cage", 1, []string{"java.util.Collection"}, "test")
	require.NoError(t, err)
	require.NoError(t, st.DefineAlias("Dog", "com.acme.Dog"))
	require.NoError(t, st.DefineAlias("Cage", "com.acme.Cage"))
	return st
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveSnapshot(ctx, zooTable(t), "zoo")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	st, err := s.LoadSnapshot(ctx, id)
	require.NoError(t, err)

	types := st.Types()
	require.Len(t, types, 3)
	require.Equal(t, "com.acme.Animal", types[0].Name())
	require.Equal(t, "com.acme.Dog", types[1].Name())
	require.Equal(t, "com.acme.Cage", types[2].Name())
	require.Equal(t, 1, types[2].Arity())
	require.Equal(t, "snapshot:"+id.String(), types[1].Origin())
	require.Equal(t, map[string]string{"Dog": "com.acme.Dog", "Cage": "com.acme.Cage"}, st.LocalAliases())

	target, err := typesystem.Parse(st, "java.lang.Iterable<com.acme.Animal>")
	require.NoError(t, err)
	candidate, err := typesystem.Parse(st, "Cage<Dog>")
	require.NoError(t, err)
	require.True(t, target.IsAssignableFrom(candidate), "%s <- %s", target, candidate)
	require.False(t, candidate.IsAssignableFrom(target))
}

func TestStore_EmptyTable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.SaveSnapshot(ctx, symbols.NewSymbolTable(), "")
	require.NoError(t, err)

	st, err := s.LoadSnapshot(ctx, id)
	require.NoError(t, err)
	require.Empty(t, st.Types())
	require.Empty(t, st.LocalAliases())
	_, ok := st.Lookup("java.lang.String")
	require.True(t, ok, "loaded tables enclose the prelude")
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.SaveSnapshot(ctx, zooTable(t), "first")
	require.NoError(t, err)
	second, err := s.SaveSnapshot(ctx, symbols.NewSymbolTable(), "second")
	require.NoError(t, err)

	infos, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, first, infos[0].ID)
	require.Equal(t, "first", infos[0].Label)
	require.Equal(t, 3, infos[0].Types)
	require.Equal(t, second, infos[1].ID)
	require.Equal(t, 0, infos[1].Types)
	require.False(t, infos[0].Created.IsZero())

	require.NoError(t, s.DeleteSnapshot(ctx, first))
	infos, err = s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	_, err = s.LoadSnapshot(ctx, first)
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	require.ErrorIs(t, s.DeleteSnapshot(ctx, first), ErrSnapshotNotFound)
}

func TestStore_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadSnapshot(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jype.db")

	s, err := OpenStore(ctx, path)
	require.NoError(t, err)
	id, err := s.SaveSnapshot(ctx, zooTable(t), "persisted")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	st, err := s.LoadSnapshot(ctx, id)
	require.NoError(t, err)
	_, ok := st.Lookup("com.acme.Dog[]")
	require.True(t, ok)
}

func TestStore_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStore(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	id, err := s.SaveSnapshot(ctx, zooTable(t), "mem")
	require.NoError(t, err)
	_, err = s.LoadSnapshot(ctx, id)
	require.NoError(t, err)
}
