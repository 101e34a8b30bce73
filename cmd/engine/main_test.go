package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmdRequiresExactlyOneBaseDirArgument(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a", "b"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"a"}))
}

func TestConfigFlagsAreRegistered(t *testing.T) {
	for _, name := range []string{"tick-rate", "chunk-size", "load-radius", "worker-count", "vsync"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "expected flag %q to be registered", name)
	}
}
