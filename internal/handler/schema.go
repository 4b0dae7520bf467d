package handler

import (
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const askRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["message"],
  "properties": {
    "message": {"type": "string"}
  }
}`

var askSchema = mustCompile(askRequestSchema)

func mustCompile(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(err)
	}
	return schema
}

// validateAskRequest confere o formato do corpo, não o conteúdo da mensagem
func validateAskRequest(body []byte) error {
	result, err := askSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New(strings.Join(msgs, "; "))
}
