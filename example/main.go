package main

import (
	"fmt"
	"log"
	"time"

	"github.com/subtranslate/guard/csrf"
)

func main() {
	issuer := csrf.NewIssuer(csrf.IssuerConfig{TTL: 5 * time.Minute})

	token, err := issuer.Issue()
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("Issued CSRF token:\n")
	fmt.Printf("  Value:   %s\n", token.Value)
	fmt.Printf("  Expires: %s\n", token.ExpiresAt())

	codec := csrf.NewCookieCodec("example-secret", false)
	cookie, err := codec.Encode(token)
	if err != nil {
		log.Fatalf("encode cookie: %v", err)
	}
	fmt.Printf("\nReference cookie value:\n  %s\n", cookie.Value)

	ref, err := codec.Decode(cookie.Value)
	if err != nil {
		log.Fatalf("decode cookie: %v", err)
	}

	if err := csrf.Validate(token.Value, ref, time.Now()); err != nil {
		log.Fatalf("expected valid token: %v", err)
	}
	fmt.Println("\nRound-trip validation succeeded.")

	if err := csrf.Validate("not-the-token", ref, time.Now()); err != nil {
		fmt.Printf("Tampered token rejected as expected: %v\n", err)
	}
}
