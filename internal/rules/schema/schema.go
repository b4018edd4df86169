// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package schema generates and validates JSON Schema documents for the
// data that crosses the boundary into and out of the policy core:
// EvaluationContext on the way in, PolicyResult on the way out. This
// exists so external tooling (config-management pipelines feeding
// ruleenginectl) can validate a context document before ever invoking the
// core, without the core itself knowing anything about schemas.
package schema

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

// Kind selects which boundary document a schema call operates on.
type Kind string

// Recognized schema kinds.
const (
	KindContext Kind = "context"
	KindResult  Kind = "result"
)

// compiledEntry holds one kind's cached compiled schema, built at most
// once per process.
type compiledEntry struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

var compiledCache = struct {
	mu      sync.Mutex
	entries map[Kind]*compiledEntry
}{entries: map[Kind]*compiledEntry{}}

func entryFor(kind Kind) *compiledEntry {
	compiledCache.mu.Lock()
	defer compiledCache.mu.Unlock()
	e, ok := compiledCache.entries[kind]
	if !ok {
		e = &compiledEntry{}
		compiledCache.entries[kind] = e
	}
	return e
}

// Generate produces an indented JSON Schema document for kind.
func Generate(kind Kind) ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}

	var schema *jsonschema.Schema
	switch kind {
	case KindContext:
		schema = r.Reflect(&types.EvaluationContext{})
		schema.Title = "Rule Engine Evaluation Context"
		schema.Description = "Schema for the node_data/derived_data document passed to ruleenginectl evaluate."
	case KindResult:
		schema = r.Reflect(&types.PolicyResult{})
		schema.Title = "Rule Engine Policy Result"
		schema.Description = "Schema for the result envelope ruleenginectl evaluate prints."
	default:
		return nil, oops.In("schema").With("kind", kind).New("unknown schema kind")
	}
	schema.ID = jsonschema.ID(SchemaID(kind))

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("schema").With("kind", kind).Wrap(err)
	}
	return append(data, '\n'), nil
}

// Validate parses data as YAML and validates it against kind's schema.
// Accepting YAML (not just JSON) matters because rule-adjacent context
// documents are commonly hand-authored alongside YAML rule-file
// front-matter.
func Validate(kind Kind, data []byte) error {
	if len(data) == 0 {
		return oops.In("schema").With("kind", kind).New("document is empty")
	}

	var decoded any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return oops.In("schema").With("kind", kind).Hint("invalid YAML").Wrap(err)
	}

	sch, err := compiled(kind)
	if err != nil {
		return oops.In("schema").With("kind", kind).Hint("failed to compile schema").Wrap(err)
	}

	if err := sch.Validate(toJSONTypes(decoded)); err != nil {
		return oops.In("schema").With("kind", kind).Hint("validation failed").Wrap(err)
	}
	return nil
}

func compiled(kind Kind) (*jschema.Schema, error) {
	e := entryFor(kind)
	e.once.Do(func() {
		e.schema, e.err = compile(kind)
	})
	return e.schema, e.err
}

func compile(kind Kind) (*jschema.Schema, error) {
	raw, err := Generate(kind)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, oops.In("schema").With("kind", kind).Hint("failed to parse generated schema JSON").Wrap(err)
	}

	resourceName := string(kind) + ".json"
	c := jschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, oops.In("schema").With("kind", kind).Wrap(err)
	}
	return c.Compile(resourceName)
}

// toJSONTypes normalizes YAML-decoded values (which may nest
// map[string]any and []any, but also occasionally map[any]any depending
// on decoder version) into pure JSON-compatible shapes before handing
// them to the schema validator.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = toJSONTypes(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[toStringKey(k)] = toJSONTypes(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = toJSONTypes(sub)
		}
		return out
	default:
		return val
	}
}

func toStringKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return string(b)
}

// ResetCache clears every cached compiled schema. Test-only: lets a test
// observe a fresh compile after mutating the reflected type in a build
// that vendors a different version of the types package (never needed in
// production, where the types never change within a process lifetime).
func ResetCache() {
	compiledCache.mu.Lock()
	defer compiledCache.mu.Unlock()
	compiledCache.entries = map[Kind]*compiledEntry{}
}

// SchemaID returns the schema $id for kind.
func SchemaID(kind Kind) string {
	return "https://ruleenginectl.bedecarroll.dev/schemas/" + string(kind) + ".schema.json"
}
