package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultFileText(t *testing.T) {
	cfg, err := Parse(bytes.NewReader(DefaultFileText()))
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig, *cfg)
}

func TestParse_AbsentKeysKeepDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[decoding]\nmax_depth = 32\n"))
	require.NoError(t, err)
	require.Equal(t, 32, cfg.Decoding.MaxDepth)
	require.Equal(t, DefaultConfig.LogLevel, cfg.LogLevel)
	require.Equal(t, DefaultConfig.Decoding.MaxBytes, cfg.Decoding.MaxBytes)
}

func TestLoad_UninitializedHomeUsesDefaults(t *testing.T) {
	cfg, err := Load("testdata/does-not-exist")
	require.NoError(t, err)
	require.EqualValues(t, DefaultConfig, *cfg)
}
