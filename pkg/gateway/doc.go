// Package gateway forwards chat requests to the Generative Language API
// without exposing the API key to clients.
//
// A request passes through four steps:
//
//  1. Validate checks that the body is a JSON object with a contents array.
//  2. Resolver.Resolve picks the model (request, operator default, then
//     DefaultModel) and the ordered, de-duplicated candidate base addresses.
//  3. Engine.Forward tries each candidate in turn. A 404 means this API
//     version does not serve the model, so the next candidate is tried. Any
//     other failure, a timeout included, ends the loop.
//  4. Classifier.Classify turns the final failure into a ClassifiedError
//     with the status, kind and message the client sees.
//
// All state is request-scoped. Settings are copied at construction, so one
// Gateway may serve concurrent requests.
//
// Example:
//
//	settings := gateway.Settings{DefaultModel: "gemini-1.5-pro"}
//	engine := gateway.NewEngine(upstream.NewClient(nil), gateway.StaticKey(key), settings)
//	gw := gateway.New(gateway.NewResolver(settings), engine)
//
//	result, err := gw.Handle(ctx, body)
//	var ce *gateway.ClassifiedError
//	if errors.As(err, &ce) {
//	    // write ce.Status and ce.Message
//	}
package gateway
