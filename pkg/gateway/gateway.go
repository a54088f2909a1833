package gateway

import "context"

// Gateway wires the validator, resolver and engine into one call.
type Gateway struct {
	resolver *Resolver
	engine   *Engine
}

// New creates a Gateway.
func New(resolver *Resolver, engine *Engine) *Gateway {
	return &Gateway{resolver: resolver, engine: engine}
}

// Handle validates raw, resolves its target and forwards it. Every error is a
// *ClassifiedError; validation failures return before any upstream call.
func (g *Gateway) Handle(ctx context.Context, raw []byte) (*Result, error) {
	req, err := Validate(raw)
	if err != nil {
		return nil, g.engine.Classifier().Classify(err)
	}

	res := g.resolver.Resolve(req.Model)
	return g.engine.Forward(ctx, req, res)
}

// Classify exposes the gateway's classifier for errors raised outside the
// pipeline, such as an oversized body.
func (g *Gateway) Classify(err error) *ClassifiedError {
	return g.engine.Classifier().Classify(err)
}
