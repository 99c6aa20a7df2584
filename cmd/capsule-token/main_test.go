package main

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "timecapsule/internal/jwt_token"
	id "timecapsule/pkg/domain"
)

func TestRun_IssuesVerifiableToken(t *testing.T) {
	identity := id.NewIdentityKey()
	var out bytes.Buffer
	err := run(&out, options{
		identity:   identity.String(),
		signingKey: "k",
		issuer:     "iss",
		audience:   "aud",
		ttl:        time.Minute,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "identity: "+identity.String(), lines[0])

	token := strings.TrimPrefix(lines[1], "token: ")
	got, err := jwttoken.NewJWTService("k", "iss", "aud").ExtractIdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestRun_RejectsBadIdentity(t *testing.T) {
	err := run(io.Discard, options{identity: "nope", signingKey: "k", ttl: time.Minute})
	assert.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("capsule-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o, err := parseFlags(fs, []string{"-ttl", "5m", "-issuer", "x"})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, o.ttl)
	assert.Equal(t, "x", o.issuer)

	fs = flag.NewFlagSet("capsule-token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err = parseFlags(fs, []string{"-ttl", "0s"})
	assert.Error(t, err)
}
