package gateway

import (
	"bytes"
	"encoding/json"
)

// Validate checks the shape of a raw chat request body. Only contents is
// required, and only its presence and array type are checked. A model field
// that is not a JSON string is ignored.
func Validate(raw []byte) (*ChatRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &ValidationError{Message: MsgInvalidJSON, Cause: err}
	}

	contents, ok := fields["contents"]
	if !ok || !isArray(contents) {
		return nil, &ValidationError{Field: "contents", Message: MsgContentsRequired}
	}

	req := &ChatRequest{Contents: contents}
	if m, ok := fields["model"]; ok {
		var model string
		if err := json.Unmarshal(m, &model); err == nil {
			req.Model = model
		}
	}
	return req, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
