// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

//go:build integration

package engine_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"
)

func TestEngineIntegrationSuite(t *testing.T) {
	defer goleak.VerifyNone(t)
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rule Engine Integration Suite")
}
