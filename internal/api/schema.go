package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemas maps a base name ("contrat") to its compiled schema. The wire
// protocol is untyped JSON; every response is checked here before it is
// allowed to become a typed record.
var schemas = compileSchemas()

func compileSchemas() map[string]*jsonschema.Schema {
	compiler := jsonschema.NewCompiler()

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("api: reading embedded schemas: %v", err))
	}

	for _, e := range entries {
		f, err := schemaFS.Open("schemas/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("api: opening schema %s: %v", e.Name(), err))
		}

		if err := compiler.AddResource(e.Name(), f); err != nil {
			panic(fmt.Sprintf("api: adding schema %s: %v", e.Name(), err))
		}

		f.Close()
	}

	compiled := make(map[string]*jsonschema.Schema, len(entries))

	for _, e := range entries {
		s, err := compiler.Compile(e.Name())
		if err != nil {
			panic(fmt.Sprintf("api: compiling schema %s: %v", e.Name(), err))
		}

		compiled[strings.TrimSuffix(e.Name(), ".json")] = s
	}

	return compiled
}

// DecodeError is a response that failed schema validation or JSON decoding.
type DecodeError struct {
	Schema string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("réponse %s invalide: %v", e.Schema, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func validateRaw(raw json.RawMessage, name string) error {
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown response schema %q", name)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return &DecodeError{Schema: name, Err: err}
	}

	if err := s.Validate(v); err != nil {
		return &DecodeError{Schema: name, Err: err}
	}

	return nil
}

// decodeObject validates raw against the named schema, then unmarshals it.
func decodeObject[T any](raw json.RawMessage, name string) (*T, error) {
	if err := validateRaw(raw, name); err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Schema: name, Err: err}
	}

	return &v, nil
}

// decodeList validates every element of a JSON array against the named
// object schema, then unmarshals the whole array.
func decodeList[T any](raw json.RawMessage, name string) ([]T, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &DecodeError{Schema: name, Err: fmt.Errorf("expected array: %w", err)}
	}

	for i, elem := range elems {
		if err := validateRaw(elem, name); err != nil {
			return nil, &DecodeError{Schema: name, Err: fmt.Errorf("element %d: %w", i, err)}
		}
	}

	var vs []T
	if err := json.Unmarshal(raw, &vs); err != nil {
		return nil, &DecodeError{Schema: name, Err: err}
	}

	return vs, nil
}
