package utils

// API error codes surfaced in the "code" field of auth error bodies.
const (
	ErrorIdentityAuthFail = 401001
)
