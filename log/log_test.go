// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(NewTerminalLogger(&buf, LevelInfo, false))

	logger.Info("staked", "id", 1)
	logger.Debug("hidden")
	logger.With("drop", 2).Warn("root replaced")

	out := buf.String()
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, "pkg=test")
	assert.Contains(t, out, "id=1")
	assert.Contains(t, out, "drop=2")
	assert.NotContains(t, out, "hidden")
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, LevelInfo, LevelFromVerbosity(3))
	assert.Equal(t, LevelDebug, LevelFromVerbosity(4))
	assert.Equal(t, LevelError, LevelFromVerbosity(1))
}
