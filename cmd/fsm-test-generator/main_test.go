package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgsBasicWMethod(t *testing.T) {
	cfg, err := parseArgs([]string{"-w", "-s", "2", "model.fsm"})
	require.NoError(t, err)
	require.Equal(t, "w", cfg.method)
	require.Equal(t, 2, cfg.fault)
	require.Equal(t, "model.fsm", cfg.modelFile)
}

func TestParseArgsWithAbstractionModel(t *testing.T) {
	cfg, err := parseArgs([]string{"-hsi", "model.fsm", "abstraction.fsm"})
	require.NoError(t, err)
	require.Equal(t, "hsi", cfg.method)
	require.Equal(t, "abstraction.fsm", cfg.abstractFile)
}

func TestParseArgsApplyFlag(t *testing.T) {
	cfg, err := parseArgs([]string{"-p", "0.1.0", "0.1.2", "2", "model.fsm"})
	require.NoError(t, err)
	require.True(t, cfg.hasApply)
	require.Equal(t, []int{0, 1, 0}, cfg.applyInput)
	require.Equal(t, []int{0, 1, 2}, cfg.applyOutput)
	require.Equal(t, 2, cfg.applyState)
}

func TestParseArgsMissingModelFile(t *testing.T) {
	_, err := parseArgs([]string{"-w"})
	require.Error(t, err)
}

func TestParseArgsUnknownFlag(t *testing.T) {
	_, err := parseArgs([]string{"-bogus", "model.fsm"})
	require.Error(t, err)
}

func TestParseArgsRequiresMethodOrApply(t *testing.T) {
	_, err := parseArgs([]string{"model.fsm"})
	require.Error(t, err)
}
