package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryDataDir_DefaultsWhenUnset(t *testing.T) {
	oldConfigDir := configDir
	configDir = ""
	defer func() { configDir = oldConfigDir }()

	assert.Empty(t, historyDataDir(), "empty means the store picks its ~/.p8lua/data default")
}

func TestHistoryDataDir_FollowsConfigDir(t *testing.T) {
	oldConfigDir := configDir
	configDir = filepath.Join("custom", "p8lua")
	defer func() { configDir = oldConfigDir }()

	assert.Equal(t, filepath.Join("custom", "p8lua", "data"), historyDataDir())
}
