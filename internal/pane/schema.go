package pane

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "raylock://pane/schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// SchemaJSON returns the JSON Schema that layout documents are checked
// against.
func SchemaJSON() []byte {
	return append([]byte(nil), schemaJSON...)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add layout schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile layout schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateSchema checks a decoded JSON document. Violations are reported as a
// *ConfigError pointing at the deepest failing node.
func validateSchema(doc any) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	leaf := deepestCause(verr)
	path, value, ok := resolvePointer(doc, leaf.InstanceLocation)
	msg := leaf.Message
	if ok {
		switch v := value.(type) {
		case string:
			msg = fmt.Sprintf("%s (got %q)", msg, v)
		case float64, bool:
			msg = fmt.Sprintf("%s (got %v)", msg, v)
		}
	}
	return &ConfigError{Path: path, Err: errors.New(msg)}
}

// deepestCause returns the leaf error with the longest instance location.
// Ties keep the first one found.
func deepestCause(e *jsonschema.ValidationError) *jsonschema.ValidationError {
	var best *jsonschema.ValidationError
	var walk func(*jsonschema.ValidationError)
	walk = func(cur *jsonschema.ValidationError) {
		if len(cur.Causes) == 0 {
			if best == nil || depth(cur.InstanceLocation) > depth(best.InstanceLocation) {
				best = cur
			}
			return
		}
		for _, c := range cur.Causes {
			walk(c)
		}
	}
	walk(e)
	return best
}

func depth(pointer string) int {
	if pointer == "" {
		return 0
	}
	return strings.Count(pointer, "/")
}

// resolvePointer converts a JSON pointer into a dotted path rooted at "root"
// and returns the value it addresses in doc.
func resolvePointer(doc any, pointer string) (string, any, bool) {
	if pointer == "" {
		return "root", doc, true
	}
	var b strings.Builder
	b.WriteString("root")
	cur := doc
	ok := true
	for _, tok := range strings.Split(pointer, "/")[1:] {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			b.WriteString(".")
			b.WriteString(tok)
			cur, ok = node[tok]
		case []any:
			fmt.Fprintf(&b, "[%s]", tok)
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				ok = false
				cur = nil
				continue
			}
			cur = node[i]
		default:
			b.WriteString(".")
			b.WriteString(tok)
			ok = false
			cur = nil
		}
	}
	return b.String(), cur, ok
}
