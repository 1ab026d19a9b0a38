package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range getCommands("test") {
		assert.False(t, names[cmd.Name], "duplicate command %q", cmd.Name)
		names[cmd.Name] = true
		assert.NotNil(t, cmd.Action, "command %q has no action", cmd.Name)
	}

	for _, name := range []string{"server", "migrate", "create-passphrase", "issue-token"} {
		assert.True(t, names[name], "missing command %q", name)
	}
}
