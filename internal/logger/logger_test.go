// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "****", Mask("ab"))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "ab*de", Mask("abcde"))
	assert.Equal(t, "li*********ey", Mask("license-a-key"))
}

func TestMask_NeverLeaksMiddle(t *testing.T) {
	secret := "hunter2hunter2"
	masked := Mask(secret)

	assert.NotContains(t, masked, secret[2:len(secret)-2])
	assert.Len(t, masked, len(secret))
}

func TestNop(t *testing.T) {
	l := Nop()

	require.NotNil(t, l)
	l.Info().Str("k", "v").Msg("discarded")
	l.Error().Msg("also discarded")
}

func TestGetChildLogger(t *testing.T) {
	parent := Nop()
	child := parent.GetChildLogger()

	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}
