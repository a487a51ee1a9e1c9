package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userkeeper-server/internal/model"
	"github.com/dtroode/userkeeper-server/internal/testutil"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "users.txt"), testutil.MakeNoopLogger())
}

func TestNew_DefaultPath(t *testing.T) {
	s := New("", testutil.MakeNoopLogger())
	assert.Equal(t, DefaultPath, s.Path())
}

func TestStorage_Load(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    []model.User
	}{
		{
			name:    "missing file",
			content: nil,
			want:    []model.User{},
		},
		{
			name:    "malformed content",
			content: ptr("{not json"),
			want:    []model.User{},
		},
		{
			name:    "empty file",
			content: ptr(""),
			want:    []model.User{},
		},
		{
			name:    "valid content",
			content: ptr(`[{"id": 1, "name": "Alice", "email": "a@x.com"}, {"id": 3, "name": "Carol", "email": "c@x.com"}]`),
			want: []model.User{
				{ID: 1, Name: "Alice", Email: "a@x.com"},
				{ID: 3, Name: "Carol", Email: "c@x.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(s.Path(), []byte(*tt.content), 0o644))
			}

			got, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_Load_ReadError(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, testutil.MakeNoopLogger())

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestStorage_SaveAndLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	users := []model.User{
		{ID: 2, Name: "Bob", Email: "b@x.com"},
		{ID: 1, Name: "Alice", Email: "a@x.com"},
	}

	require.NoError(t, s.Save(ctx, users))

	got, err := New(s.Path(), testutil.MakeNoopLogger()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestStorage_Save_RewritesWholeFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.Save(ctx, []model.User{
		{ID: 1, Name: "Alice", Email: "a@x.com"},
		{ID: 2, Name: "Bob", Email: "b@x.com"},
	}))
	require.NoError(t, s.Save(ctx, []model.User{}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStorage_Save_Format(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save(context.Background(), []model.User{{ID: 1, Name: "Alice", Email: "a@x.com"}}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"id\": 1,\n        \"name\": \"Alice\",\n        \"email\": \"a@x.com\"\n    }\n]", string(data))
}

func TestStorage_Save_FileMode(t *testing.T) {
	tests := []struct {
		name     string
		existing os.FileMode
		want     os.FileMode
	}{
		{name: "new file", want: 0o644},
		{name: "keeps world readable", existing: 0o644, want: 0o644},
		{name: "keeps restricted", existing: 0o640, want: 0o640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t)
			if tt.existing != 0 {
				require.NoError(t, os.WriteFile(s.Path(), []byte("[]"), tt.existing))
				require.NoError(t, os.Chmod(s.Path(), tt.existing))
			}

			require.NoError(t, s.Save(context.Background(), []model.User{{ID: 1, Name: "Alice", Email: "a@x.com"}}))

			info, err := os.Stat(s.Path())
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Mode().Perm())
		})
	}
}

func TestStorage_Save_Error(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing-dir", "users.txt"), testutil.MakeNoopLogger())

	err := s.Save(context.Background(), []model.User{{ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create temp file")
}

func ptr(s string) *string {
	return &s
}
