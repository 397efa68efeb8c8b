//go:build ignore

// generate_keys prints a JWT signing secret and API keys for the token
// endpoint as .env lines.
//
//	go run scripts/generate_keys.go -api-keys 2
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
)

func randomKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func main() {
	apiKeys := flag.Int("api-keys", 1, "number of API keys to generate")
	flag.Parse()

	secret, err := randomKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate JWT secret: %v\n", err)
		os.Exit(1)
	}

	keys := make([]string, 0, *apiKeys)
	for i := 0; i < *apiKeys; i++ {
		key, err := randomKey(24)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate API key: %v\n", err)
			os.Exit(1)
		}
		keys = append(keys, key)
	}

	fmt.Println("# Token authentication (AUTH_ENABLED=true)")
	fmt.Printf("JWT_SECRET_KEY=%s\n", secret)
	if len(keys) > 0 {
		fmt.Println("# Keys allowed to call POST /api/auth/token")
		fmt.Printf("API_KEYS=%s\n", strings.Join(keys, ","))
	}
}
