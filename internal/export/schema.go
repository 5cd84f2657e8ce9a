package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaFile - путь схемы относительно пакета, его же перезаписывает cmd/schemagen
const SchemaFile = "schema/export.schema.json"

//go:embed schema/export.schema.json
var schemaJSON []byte

// CompileSchema собирает встроенную схему документа экспорта
func CompileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("export.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add export schema: %w", err)
	}
	s, err := c.Compile("export.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile export schema: %w", err)
	}
	return s, nil
}

// validateBody проверяет уже сериализованный документ
func validateBody(s *jsonschema.Schema, body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return err
	}
	return s.Validate(v)
}
