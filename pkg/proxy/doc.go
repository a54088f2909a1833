// Package proxy holds the HTTP plumbing shared by the gateway's handlers and
// middleware: reading bounded request bodies, the JSON error body, and the
// mapping from failures to status codes.
//
// Every error response, whatever produced it, has the shape
//
//	{"error": "<label>", "message": "<text>", "kind": "<kind>", "statusCode": <upstream status>}
//
// where kind and statusCode are present only when they apply. Successful chat
// responses are the upstream payload, written unchanged.
package proxy
