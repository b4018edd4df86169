// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCmdSucceedsOnWellFormedRules(t *testing.T) {
	path := writeTempFile(t, "rules.txt", `WHEN vendor == "cisco" THEN APPLY "baseline"`)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"parse", path, "--quiet"})
	require.NoError(t, cmd.Execute())
}

func TestParseCmdFailsOnBadSetPath(t *testing.T) {
	path := writeTempFile(t, "rules.txt", `WHEN a == 1 THEN SET node_data.x TO 1`)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"parse", path})
	require.Error(t, cmd.Execute())
}

func TestEvaluateCmdProducesResultJSON(t *testing.T) {
	rulesPath := writeTempFile(t, "rules.txt", `WHEN vendor == "cisco" THEN APPLY "baseline"`)
	contextPath := writeTempFile(t, "ctx.yaml", "node_data:\n  vendor: cisco\n")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"evaluate", "--rules", rulesPath, "--context", contextPath, "--object-id", "node-1"})
	require.NoError(t, cmd.Execute())
}

func TestComposeCmdMergesDocuments(t *testing.T) {
	deltaPath := writeTempFile(t, "delta.yaml", "custom_data:\n  x: 1\n")
	nodeDataPath := writeTempFile(t, "node.yaml", "vendor: cisco\n")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"compose", "--delta", deltaPath, "--node-data", nodeDataPath})
	require.NoError(t, cmd.Execute())
}

func TestSchemaGenerateCmdPrintsSchema(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema", "generate", "--kind", "context"})
	require.NoError(t, cmd.Execute())
}

func TestSchemaGenerateCmdWritesXDGCache(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema", "generate", "--kind", "context"})
	require.NoError(t, cmd.Execute())

	cached := filepath.Join(dataHome, "ruleenginectl", "context.schema.json")
	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	require.Contains(t, string(data), "node_data")
}

func TestSchemaGenerateCmdNoCacheSkipsWrite(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema", "generate", "--kind", "context", "--no-cache"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dataHome, "ruleenginectl", "context.schema.json"))
	require.True(t, os.IsNotExist(err))
}

func TestRootCmdDefaultsConfigPathToXDGConfigHome(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"schema", "generate", "--kind", "context", "--no-cache"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, filepath.Join(configHome, "ruleenginectl", "config.yaml"), resolvedConfigPath)
}
