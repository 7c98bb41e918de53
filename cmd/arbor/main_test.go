package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearYAML = `name: linear
inputs:
  - {name: x, type: continuous}
  - {name: y, type: continuous}
code: |
  (if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
`

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linear.yaml"), []byte(linearYAML), 0o644))
	return dir
}

// run executes the root command. Flags keep their values between runs, so
// every call passes the flags it depends on.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--store", "file", "--dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Eval(t *testing.T) {
	dir := setupRepo(t)

	out, err := run(t, dir, "eval", "linear", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, "#1\n", out)

	out, err = run(t, dir, "eval", "linear", "y=1", "x=0")
	require.NoError(t, err)
	assert.Equal(t, "#2\n", out)

	_, err = run(t, dir, "eval", "linear", "y=1")
	assert.Error(t, err, "arithmetic on a missing input")

	rows := filepath.Join(dir, "rows.jsonl")
	require.NoError(t, os.WriteFile(rows, []byte("{\"x\": 1, \"y\": 1}\n{\"x\": 0, \"y\": 1}\n"), 0o644))
	out, err = run(t, dir, "eval", "linear", "--rows", rows)
	require.NoError(t, err)
	assert.Equal(t, "#1\n#2\n", out)

	_, err = run(t, dir, "eval", "linear", "--rows", "", "1")
	assert.Error(t, err)
}

func TestCLI_GenerateAndValidate(t *testing.T) {
	dir := setupRepo(t)
	target := filepath.Join(dir, "linear.py")

	_, err := run(t, dir, "generate", "linear", "--lang", "python", "--check", "--render=false", "-o", target)
	require.NoError(t, err)
	src, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(src), "def predict(x, y):")

	out, err := run(t, dir, "generate", "linear", "--lang", "ruby", "--check=false", "--render=false", "-o", "")
	require.NoError(t, err)
	assert.Contains(t, out, "def predict")

	out, err = run(t, dir, "validate", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   linear")
}

func TestCLI_EncodeDecodeInspect(t *testing.T) {
	dir := setupRepo(t)
	bin := filepath.Join(t.TempDir(), "linear.arbor.gz")

	out, err := run(t, dir, "encode", "linear", "--gzip", "-o", bin)
	require.NoError(t, err)
	assert.Contains(t, out, "sha256:")

	out, err = run(t, dir, "decode", bin, "--gzip", "--save=false")
	require.NoError(t, err)
	assert.Contains(t, out, "name: linear")

	out, err = run(t, dir, "inspect", "linear", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.EqualValues(t, 0, info["locals"])
	assert.Equal(t, []any{"x:continuous", "y:continuous"}, info["inputs"])
}

func TestCLI_Graph(t *testing.T) {
	dir := setupRepo(t)

	out, err := run(t, dir, "graph", "linear")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD"))
	assert.NotContains(t, out, "classDef visited")

	out, err = run(t, dir, "graph", "linear", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "classDef visited")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "arbor version "))
}
