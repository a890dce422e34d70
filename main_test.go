package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dai/cmd"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", version)
}

func TestSetVersion(t *testing.T) {
	original := cmd.GetVersion()
	defer cmd.SetVersion(original)

	cmd.SetVersion(version)
	assert.Equal(t, "dev", cmd.GetVersion())
}
