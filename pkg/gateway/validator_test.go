package gateway

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantErr      bool
		wantField    string
		wantModel    string
		wantContents string
	}{
		{
			name:         "valid request",
			body:         `{"contents":[{"role":"user","parts":[{"text":"hi"}]}],"model":"gemini-1.5-pro"}`,
			wantModel:    "gemini-1.5-pro",
			wantContents: `[{"role":"user","parts":[{"text":"hi"}]}]`,
		},
		{
			name:         "empty contents accepted",
			body:         `{"contents":[]}`,
			wantContents: `[]`,
		},
		{
			name:         "unknown fields pass through",
			body:         `{"contents":[],"temperature":9,"safety":{"x":1}}`,
			wantContents: `[]`,
		},
		{
			name:         "non-string model ignored",
			body:         `{"contents":[],"model":42}`,
			wantContents: `[]`,
		},
		{
			name:      "missing contents",
			body:      `{"model":"m"}`,
			wantErr:   true,
			wantField: "contents",
		},
		{
			name:      "null contents",
			body:      `{"contents":null}`,
			wantErr:   true,
			wantField: "contents",
		},
		{
			name:      "object contents",
			body:      `{"contents":{"role":"user"}}`,
			wantErr:   true,
			wantField: "contents",
		},
		{
			name:      "string contents",
			body:      `{"contents":"hello"}`,
			wantErr:   true,
			wantField: "contents",
		},
		{
			name:    "array body",
			body:    `[{"contents":[]}]`,
			wantErr: true,
		},
		{
			name:    "null body",
			body:    `null`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"contents":[`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Validate([]byte(tt.body))

			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Validate() error = %v, want *ValidationError", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
				}
				return
			}

			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if req.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", req.Model, tt.wantModel)
			}
			if string(req.Contents) != tt.wantContents {
				t.Errorf("Contents = %s, want %s", req.Contents, tt.wantContents)
			}
		})
	}
}
