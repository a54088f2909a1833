package gateway

import (
	"strings"

	"vhbc/gateway/pkg/upstream"
)

// Resolver picks the target model and the ordered candidate addresses.
type Resolver struct {
	defaultModel string
	candidates   []string
}

// NewResolver creates a Resolver from settings. The candidate list is fixed
// at construction; configuration changes need a new Resolver.
func NewResolver(s Settings) *Resolver {
	fallbacks := s.FallbackBaseURLs
	if fallbacks == nil {
		fallbacks = []string{upstream.GoogleV1, upstream.GoogleV1Beta}
	}

	all := make([]string, 0, len(fallbacks)+1)
	all = append(all, s.BaseURL)
	all = append(all, fallbacks...)

	return &Resolver{
		defaultModel: strings.TrimSpace(s.DefaultModel),
		candidates:   dedupe(all),
	}
}

// Resolve returns the model and candidates for a request. The model is the
// request's own when non-empty (taken as sent), else the operator default,
// else DefaultModel. It never fails; the candidate list may be empty.
func (r *Resolver) Resolve(requestModel string) Resolution {
	model := requestModel
	if model == "" {
		model = r.defaultModel
	}
	if model == "" {
		model = DefaultModel
	}

	candidates := make([]string, len(r.candidates))
	copy(candidates, r.candidates)

	return Resolution{Model: model, Candidates: candidates}
}

// dedupe normalizes addresses and drops empties and repeats, keeping
// first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimRight(strings.TrimSpace(c), "/")
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
