//go:build ignore

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// prints a bearer token and a report request that exercises the auth classifier
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	expired := flag.Bool("expired", false, "issue a token that expired an hour ago")
	subject := flag.String("sub", "test-user-123", "subject claim")
	flag.Parse()

	secret := os.Getenv("TEST_JWT_SECRET")
	if secret == "" {
		secret = "errorstack-test-secret"
	}

	exp := time.Now().Add(time.Hour)
	if *expired {
		exp = time.Now().Add(-time.Hour)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   *subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("Failed to sign JWT: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("\nTest JWT Token (expires %s):\n%s\n\n", exp.Format(time.RFC3339), token)
	fmt.Printf("Report a 401 made with this token:\n")
	fmt.Printf("curl -X POST localhost:%s/api/v1/errors/report -H 'Content-Type: application/json' \\\n", port)
	fmt.Printf("  -d '{\"status\":401,\"url\":\"/api/things\",\"requestHeaders\":{\"Authorization\":\"Bearer %s\"}}'\n", token)
}
