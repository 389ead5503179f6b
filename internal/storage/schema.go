package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed quests.schema.json
var journalSchemaJSON string

const journalSchemaURL = "quests.schema.json"

var journalSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(journalSchemaURL, journalSchemaJSON)
})

// SchemaError describes the first place a journal document breaks the schema.
type SchemaError struct {
	Location string // JSON pointer into the document, e.g. /0/priority
	Message  string
}

func (e *SchemaError) Error() string {
	if e.Location == "" {
		return e.Message
	}
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// validateJournal checks raw journal bytes against the embedded schema.
func validateJournal(data []byte) error {
	schema, err := journalSchema()
	if err != nil {
		return fmt.Errorf("compiling journal schema: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	if dec.More() {
		return errors.New("parsing JSON: unexpected data after top-level value")
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return firstSchemaCause(ve)
		}
		return err
	}
	return nil
}

// firstSchemaCause walks to the deepest leaf of a validation error tree,
// which names the offending field rather than the enclosing array.
func firstSchemaCause(ve *jsonschema.ValidationError) *SchemaError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SchemaError{Location: ve.InstanceLocation, Message: ve.Message}
}
