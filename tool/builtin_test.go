package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewCalculator())

	tests := []struct {
		name       string
		expression string
		want       string
		wantErr    bool
	}{
		{name: "addition", expression: "2 + 2", want: "2 + 2 = 4"},
		{name: "sqrt alias", expression: "sqrt(16)", want: "sqrt(16) = 4"},
		{name: "precedence", expression: "2 + 3 * 4", want: "2 + 3 * 4 = 14"},
		{name: "invalid syntax", expression: "2 +", wantErr: true},
		{name: "no filesystem access", expression: `os.getenv("HOME")`, wantErr: true},
		{name: "empty", expression: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := reg.Invoke(context.Background(), "calculator", map[string]string{"expression": tt.expression})
			if tt.wantErr {
				assert.False(t, res.Success)
				assert.NotEmpty(t, res.Error)
				return
			}
			require.True(t, res.Success, res.Error)
			assert.Equal(t, tt.want, res.Output)
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "note.txt")

	reg := NewRegistry()
	reg.RegisterAll(NewReadFile(), NewWriteFile())

	res := reg.Invoke(context.Background(), "write_file", map[string]string{
		"filepath": path,
		"content":  "hello world",
	})
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Output, "11 characters")

	res = reg.Invoke(context.Background(), "read_file", map[string]string{"filepath": path})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "hello world", res.Output)
}

func TestReadFile_Missing(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewReadFile())

	res := reg.Invoke(context.Background(), "read_file", map[string]string{
		"filepath": filepath.Join(t.TempDir(), "absent.txt"),
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, CodeExecution)
}

func TestListDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))

	reg := NewRegistry()
	reg.Register(NewListDirectory())

	res := reg.Invoke(context.Background(), "list_directory", map[string]string{"path": dir})
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Output, "[DIR]  sub/")
	assert.Contains(t, res.Output, "[FILE] file.txt (1 bytes)")
}

func TestTextAnalysis(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewTextAnalysis())

	res := reg.Invoke(context.Background(), "text_analysis", map[string]string{"text": "one two three"})
	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Output, "Characters: 13")
	assert.Contains(t, res.Output, "Words: 3")
	assert.Contains(t, res.Output, "Lines: 1")
}

func TestBuiltins_AllRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterAll(Builtins()...)

	assert.Equal(t, []string{
		"calculator", "read_file", "write_file", "list_directory",
		"get_datetime", "web_search", "text_analysis",
	}, reg.Names())
}
