package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/goliatone/go-usersig/content"
	"github.com/goliatone/go-usersig/sigerr"
)

const fieldPrefix = "TLS."

// encodePayload renders the flat JSON record. encoding/json sorts map keys,
// so identical fields always produce identical bytes.
func encodePayload(fields content.Fields) ([]byte, error) {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[string(key)] = value
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeInternal, "core: encode credential payload")
	}
	return encoded, nil
}

// decodePayload parses a credential record. Numeric values are accepted and
// kept in their literal form; any other non-string value on a TLS field is
// malformed. Fields outside the TLS namespace are ignored.
func decodePayload(raw []byte) (content.Fields, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var values map[string]any
	if err := decoder.Decode(&values); err != nil {
		return nil, sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: json_decode error")
	}
	if values == nil {
		return nil, sigerr.New(sigerr.TextCodeMalformedPayload, "core: json_decode error: payload is not an object")
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, sigerr.New(sigerr.TextCodeMalformedPayload, "core: json_decode error: trailing data")
	}

	fields := make(content.Fields, len(values))
	for key, value := range values {
		if !strings.HasPrefix(key, fieldPrefix) {
			continue
		}
		switch typed := value.(type) {
		case string:
			fields[content.Field(key)] = typed
		case json.Number:
			fields[content.Field(key)] = typed.String()
		default:
			err := sigerr.New(sigerr.TextCodeMalformedPayload, "core: field "+key+" is not a string")
			return nil, sigerr.WithMetadata(err, map[string]any{"field": key})
		}
	}
	return fields, nil
}

// requireField returns the value of field or a malformed-payload error.
func requireField(fields content.Fields, field content.Field) (string, error) {
	if err := fields.Require(field); err != nil {
		return "", sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: json need "+string(field))
	}
	value, _ := fields.Get(field)
	return value, nil
}
