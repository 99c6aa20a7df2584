// Package main issues identity tokens for local development against the
// capsule server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	jwttoken "timecapsule/internal/jwt_token"
	id "timecapsule/pkg/domain"
)

type options struct {
	identity   string
	signingKey string
	issuer     string
	audience   string
	ttl        time.Duration
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	if err := run(os.Stdout, opts); err != nil {
		log.Fatalf("issue token: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.identity, "identity", "", "identity to assert (default: a fresh random identity)")
	fs.StringVar(&o.signingKey, "signing-key", envOr("CAPSULE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"), "HS256 signing key")
	fs.StringVar(&o.issuer, "issuer", envOr("CAPSULE_JWT_ISSUER", "timecapsule"), "token issuer")
	fs.StringVar(&o.audience, "audience", envOr("CAPSULE_JWT_AUDIENCE", "timecapsule-api"), "token audience")
	fs.DurationVar(&o.ttl, "ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.ttl <= 0 {
		return options{}, fmt.Errorf("ttl must be positive")
	}
	return o, nil
}

// run writes the identity and its token to w, one per line.
func run(w io.Writer, o options) error {
	identity := id.NewIdentityKey()
	if o.identity != "" {
		parsed, err := id.ParseIdentityKey(o.identity)
		if err != nil {
			return err
		}
		identity = parsed
	}

	token, err := jwttoken.NewJWTService(o.signingKey, o.issuer, o.audience).GenerateIdentityToken(identity, o.ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "identity: %s\ntoken: %s\n", identity, token)
	return err
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
