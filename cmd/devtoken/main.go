// Command devtoken prints an access token signed with the configured secret,
// for calling the admin API without the hosted auth provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/touchline/backend/internal/infrastructure/auth"
	"github.com/touchline/backend/internal/infrastructure/config"
)

func main() {
	var (
		subject string
		email   string
		role    string
		ttl     time.Duration
	)
	flag.StringVar(&subject, "sub", "", "Token subject (default: random uuid)")
	flag.StringVar(&email, "email", "", "Email claim")
	flag.StringVar(&role, "role", "admin", "app_metadata.role claim")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.dev_token_ttl)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Env == "production" {
		fmt.Fprintln(os.Stderr, "Refusing to mint tokens in production")
		os.Exit(1)
	}
	if ttl == 0 {
		ttl = cfg.Auth.DevTokenTTL
	}

	token, expiresAt, err := auth.NewJWTVerifier(cfg.Auth).IssueToken(auth.IssueTokenInput{
		Subject: subject,
		Email:   email,
		AppRole: role,
		TTL:     ttl,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
