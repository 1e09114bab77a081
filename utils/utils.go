package utils

import (
	"math/rand"
	"os"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomAlphabetString generates a random lowercase string with length N.
func RandomAlphabetString(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return sb.String()
}

func IsProdEnv() bool {
	return os.Getenv("QUILLFEED_ENV") == "prod"
}

// FallbackString returns str if non-empty, otherwise fallback.
func FallbackString(str string, fallback string) string {
	if str == "" {
		return fallback
	}
	return str
}
