package helpers

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

var jsonSchemaReflector = jsonschema.Reflector{
	Anonymous:                 true,
	AllowAdditionalProperties: true,
	DoNotReference:            true,
	ExpandedStruct:            true,
}

// JSONSchema reflects the JSON Schema of v's type and returns it as compact
// JSON, without the $schema version key.
func JSONSchema(v any) (string, error) {
	schema := jsonSchemaReflector.ReflectFromType(reflect.TypeOf(v))
	schema.Version = ""

	out, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
