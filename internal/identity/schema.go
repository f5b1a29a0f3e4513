// internal/identity/schema.go
package identity

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"eventgate/internal/common/errors"
)

// profileSchema is the contract we hold the identity provider to. The
// tier attribute stays a free-form string here: classification happens in
// tier.Parse, not in the schema.
const profileSchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"username": {"type": "string"},
		"email": {"type": "string"},
		"enabled": {"type": "boolean"},
		"attributes": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {"type": "string"}
			}
		}
	}
}`

var profileSchemaLoader = gojsonschema.NewStringLoader(profileSchema)

// ValidateProfilePayload validates a raw profile payload against the
// profile schema.
func ValidateProfilePayload(payload []byte) error {
	result, err := gojsonschema.Validate(profileSchemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.NewProfileInvalidError(err.Error())
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.NewProfileInvalidError(strings.Join(msgs, "; "))
	}

	return nil
}
