package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MemoryBackend(t *testing.T) {
	t.Setenv("CIVIC_STORE_BACKEND", "memory")

	var out bytes.Buffer
	require.NoError(t, run([]string{"divergence"}, &out))
	assert.Contains(t, out.String(), "Ledgers are consistent.")
}

func TestRun_UnknownBackend(t *testing.T) {
	t.Setenv("CIVIC_STORE_BACKEND", "floppy")

	var out bytes.Buffer
	assert.Error(t, run([]string{"divergence"}, &out))
}
