package services

import "errors"

var (
	// ErrModelUnavailable means the embedding backend never initialized.
	// Every call into the similarity engine fails with it until the
	// provider is rebuilt; it is never silently degraded.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrGenerationFailed means the generation backend call itself failed
	// (network/auth/quota). Malformed output is not this error; it is
	// repaired locally.
	ErrGenerationFailed = errors.New("quiz generation failed")

	// ErrUnparseable means no JSON object could be recovered from a raw
	// model response.
	ErrUnparseable = errors.New("no JSON object found in response")
)
