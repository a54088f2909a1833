package upstream

import "encoding/json"

// Known base addresses of the Generative Language API, newest stable first.
const (
	GoogleV1     = "https://generativelanguage.googleapis.com/v1"
	GoogleV1Beta = "https://generativelanguage.googleapis.com/v1beta"
)

// Fixed sampling parameters sent with every chat request.
const (
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 2048
)

// GenerationConfig controls sampling on the upstream.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GenerateRequest is the body of a generateContent call. Contents is passed
// through exactly as the client sent it. A nil GenerationConfig leaves
// sampling to the upstream defaults.
type GenerateRequest struct {
	Contents         json.RawMessage   `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// NewGenerateRequest wraps contents with the fixed generation settings.
func NewGenerateRequest(contents json.RawMessage) *GenerateRequest {
	return &GenerateRequest{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
	}
}

// Model describes one entry of the models listing.
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// Supports reports whether the model lists the given generation method.
func (m Model) Supports(method string) bool {
	for _, s := range m.SupportedGenerationMethods {
		if s == method {
			return true
		}
	}
	return false
}

type listModelsResponse struct {
	Models        []Model `json:"models"`
	NextPageToken string  `json:"nextPageToken"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Text extracts candidates[0].content.parts[0].text from a generateContent
// response. It returns "" when the payload has a different shape.
func Text(payload []byte) string {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return ""
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return resp.Candidates[0].Content.Parts[0].Text
}
