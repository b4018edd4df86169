// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// GrammarVersion is the semver identity of the grammar this package
// parses. It advances on any change to the productions in grammar.go.
const GrammarVersion = "1.0.0"

// SupportedGrammarConstraint accepts any RuleFile declaring a
// grammar-version with the same major version as this build: any 1.x.y,
// including minor/patch versions newer than GrammarVersion.
const SupportedGrammarConstraint = "~1.0.0 || ~1"

var grammarVersionHeader = regexp.MustCompile(`^//\s*grammar-version:\s*(\S+)\s*$`)

// ExtractGrammarVersion reads an optional leading
// "// grammar-version: X.Y.Z" comment line from text. It returns "", false
// when no such header is present; the header is a CLI-level convention,
// not part of the grammar itself, so its absence is never a parse error.
func ExtractGrammarVersion(text string) (string, bool) {
	firstLine, _, _ := strings.Cut(text, "\n")
	m := grammarVersionHeader.FindStringSubmatch(strings.TrimSpace(firstLine))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CheckGrammarCompatibility reports whether declaredVersion satisfies
// SupportedGrammarConstraint against this build's GrammarVersion.
func CheckGrammarCompatibility(declaredVersion string) error {
	v, err := semver.StrictNewVersion(declaredVersion)
	if err != nil {
		return fmt.Errorf("grammar-version %q is not valid semver: %w", declaredVersion, err)
	}

	constraint, err := semver.NewConstraint(SupportedGrammarConstraint)
	if err != nil {
		return fmt.Errorf("internal error: bad grammar constraint %q: %w", SupportedGrammarConstraint, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("grammar-version %s is not compatible with this build's grammar %s", declaredVersion, GrammarVersion)
	}
	return nil
}
