// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("Modes", func(t *testing.T) {
		for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
			l, err := New(mode, "", zapcore.InfoLevel)
			require.NoError(t, err, mode)
			require.NotNil(t, l, mode)
		}
	})

	t.Run("FallbackLevel", func(t *testing.T) {
		l, err := New("dev", "", zapcore.WarnLevel)
		require.NoError(t, err)
		assert.False(t, l.s.Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.s.Desugar().Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("ExplicitLevel", func(t *testing.T) {
		l, err := New("prod", "debug", zapcore.WarnLevel)
		require.NoError(t, err)
		assert.True(t, l.s.Desugar().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := New("verbose", "", zapcore.InfoLevel)
		assert.ErrorContains(t, err, "invalid log mode")
		_, err = New("dev", "loud", zapcore.InfoLevel)
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.With("stage", "assign").Info("assigned", "customers", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "assigned", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"stage": "assign", "customers": int64(3)}, entries[0].ContextMap())
}
