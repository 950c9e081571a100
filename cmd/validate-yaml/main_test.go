package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, run(nil, &out))
	assert.Contains(t, out.String(), "No files to check.")

	out.Reset()
	assert.Equal(t, 0, run([]string{"../../testdata/john_doe.yaml"}, &out))
	assert.Contains(t, out.String(), "john_doe.yaml is valid")

	out.Reset()
	assert.Equal(t, 1, run([]string{"../../testdata/john_doe.yaml", "../../testdata/broken.yaml"}, &out))
	assert.Contains(t, out.String(), "❌ ../../testdata/broken.yaml")
	assert.Contains(t, out.String(), "company is required")
	assert.Contains(t, out.String(), "email is not a valid address")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}

	assert.Error(t, check(filepath.Join(dir, "missing.yaml")))
	assert.Error(t, check(write("syntax.yaml", "name: [unclosed")))
	assert.Error(t, check(write("unknown.yaml", "name: Jo\nnickname: J\n")))

	err := check(write("unselected.yaml", "name: Jo\nhard_skills:\n  - label: Go\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no skill is selected")

	assert.NoError(t, check(write("ok.yaml", "name: Jo\n")))
}
