// Package tls builds listener TLS settings for the gateway.
//
// NewServerConfig loads the configured certificate and key, validates the
// leaf's validity window and returns a *crypto/tls.Config whose
// GetCertificate always serves the most recently loaded pair. A
// CertificateReloader polls the files for changes so a renewed certificate
// is picked up without restarting the server; a failed reload keeps the
// previous pair and logs an error.
//
// Certificates with fewer than 30 days left are logged at warn level on
// every load.
package tls
