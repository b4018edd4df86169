// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

func TestFieldPathString(t *testing.T) {
	fp := types.FieldPath{"custom_data", "compliance", "flag"}
	require.Equal(t, "custom_data.compliance.flag", fp.String())
}

func TestFieldPathHasPrefix(t *testing.T) {
	fp := types.FieldPath{"custom_data", "x"}
	require.True(t, fp.HasPrefix("custom_data"))
	require.False(t, fp.HasPrefix("node_data"))

	require.False(t, types.FieldPath{}.HasPrefix("custom_data"))
}

func TestFieldPathEqual(t *testing.T) {
	a := types.FieldPath{"a", "b"}
	b := types.FieldPath{"a", "b"}
	c := types.FieldPath{"a", "c"}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(types.FieldPath{"a"}))
}
