package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Bookmark
		want  string
	}{
		{
			name:  "absolute is returned unchanged",
			input: Bookmark{Name: "work", Path: "/a/b/c"},
			want:  "/a/b/c",
		},
		{
			name:  "relative resolves against base",
			input: Bookmark{Name: "up2", Path: "../..", Relative: true, Base: "/a/b/c/d"},
			want:  "/a/b",
		},
		{
			name:  "relative collapses dot segments",
			input: Bookmark{Name: "src", Path: "./x/../src", Relative: true, Base: "/repo"},
			want:  "/repo/src",
		},
		{
			name:  "relative cannot climb above root",
			input: Bookmark{Name: "top", Path: "../../../..", Relative: true, Base: "/a"},
			want:  "/",
		},
		{
			name:  "relative flag with absolute path stays absolute",
			input: Bookmark{Name: "tmp", Path: "/tmp", Relative: true, Base: "/a"},
			want:  "/tmp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.input.Resolve())
		})
	}
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "work"},
		{name: "dotted", input: "v1.2"},
		{name: "case sensitive distinct names allowed", input: "Work"},
		{name: "empty", input: "", wantErr: true},
		{name: "dash prefix", input: "-r", wantErr: true},
		{name: "lone dash", input: "-", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dotdot", input: "..", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "newline", input: "a\nb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateName(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidName)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestTablePutOverwrites(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Put(Bookmark{Name: "work", Path: "/first"}))
	require.NoError(t, table.Put(Bookmark{Name: "work", Path: "/second"}))

	assert.Equal(t, 1, table.Len())
	b, err := table.Lookup("work")
	require.NoError(t, err)
	assert.Equal(t, "/second", b.Path)
}

func TestTablePutRejectsRelativeWithoutBase(t *testing.T) {
	t.Parallel()

	table := NewTable()
	err := table.Put(Bookmark{Name: "up", Path: "..", Relative: true, Base: "rel"})
	require.Error(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestTablePutRejectsUnmarkedRelativePath(t *testing.T) {
	t.Parallel()

	table := NewTable()
	err := table.Put(Bookmark{Name: "up", Path: "../x"})
	require.Error(t, err)
	assert.False(t, table.Has("up"))
}

func TestTablePutDropsBaseOfAbsolute(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Put(Bookmark{Name: "abs", Path: "/x", Base: "/ignored"}))

	b, err := table.Lookup("abs")
	require.NoError(t, err)
	assert.Empty(t, b.Base)
}

func TestTableRemove(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Put(Bookmark{Name: "work", Path: "/w"}))

	assert.True(t, table.Remove("work"))
	assert.False(t, table.Remove("work"))
	assert.False(t, table.Has("work"))
}

func TestTableLookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := NewTable().Lookup("doesnotexist")
	require.ErrorIs(t, err, ErrUnknownBookmark)
	assert.Contains(t, err.Error(), "doesnotexist")
}

func TestTableClear(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Put(Bookmark{Name: "a", Path: "/a"}))
	require.NoError(t, table.Put(Bookmark{Name: "b", Path: "/b"}))

	assert.Equal(t, 2, table.Clear())
	assert.Equal(t, 0, table.Len())
}

func TestTableSortedByUseThenName(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Put(Bookmark{Name: "b", Path: "/b"}))
	require.NoError(t, table.Put(Bookmark{Name: "a", Path: "/a"}))
	require.NoError(t, table.Put(Bookmark{Name: "c", Path: "/c"}))
	table.MarkUsed("c")
	table.MarkUsed("c")
	table.MarkUsed("b")
	table.MarkUsed("missing")

	var names []string
	for _, b := range table.Sorted() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"c", "b", "a"}, names)
}
