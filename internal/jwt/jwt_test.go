package jwt

import (
	"testing"

	"conga-server/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestSignAndValidate(t *testing.T) {
	clear := util.SetEnv("CONGA_JWT_SIGNING_KEY", "test-key")
	defer clear()
	LoadKey()

	a := assert.New(t)

	signed, err := Sign("session-1", 1)
	a.NoError(err)
	a.NotEmpty(signed)

	sessionID, seat, err := ValidSeat(signed)
	a.NoError(err)
	a.Equal("session-1", sessionID)
	a.Equal(1, seat)
}

func TestValidSeat_BadToken(t *testing.T) {
	clear := util.SetEnv("CONGA_JWT_SIGNING_KEY", "test-key")
	defer clear()
	LoadKey()

	a := assert.New(t)

	_, _, err := ValidSeat("not-a-token")
	a.Error(err)

	signed, err := Sign("session-1", 0)
	a.NoError(err)

	// token signed with a different key must fail
	signingKey = []byte("another-key")
	_, _, err = ValidSeat(signed)
	a.Error(err)
}
