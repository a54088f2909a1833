// Command gateway runs the VHBC chat gateway: a small HTTP service that
// validates chat requests from the browser client, forwards them to the
// Gemini generateContent API with fallback across API versions, and maps
// failures to a stable JSON error taxonomy.
//
// Usage:
//
//	# Start the server with configuration from the environment
//	gateway run
//
//	# Start with a configuration file
//	gateway run --config /etc/vhbc/gateway.yaml
//
//	# Check that the API key works and list usable models
//	gateway check-key
//
//	# Find the first model and API version that answers
//	gateway probe
//
//	# Show version information
//	gateway version
package main

import "os"

func main() {
	os.Exit(Execute())
}
