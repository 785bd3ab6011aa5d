package jwt

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"conga-server/internal/config"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Issuer issues the JWT
const Issuer = "conga-server"

// Lifetime is how long a rejoin token stays valid
const Lifetime = time.Hour * 12

var signingKey []byte

// ErrInvalidToken is an error for a token that fails validation
var ErrInvalidToken = errors.New("invalid token")

// LoadKey will load the signing key from configuration
// If no key is configured, a random one is generated, meaning rejoin
// tokens will not survive a server restart.
func LoadKey() {
	if key := config.Instance().JWTSigningKey; key != "" {
		signingKey = []byte(key)
		return
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	signingKey = []byte(hex.EncodeToString(b))
}

// SeatClaims identify a seat in a session for rejoin purposes
type SeatClaims struct {
	SessionID string `json:"sessionId"`
	Seat      int    `json:"seat"`
	jwtgo.StandardClaims
}

// Sign will sign a rejoin token for the seat in the session
func Sign(sessionID string, seat int) (string, error) {
	if signingKey == nil {
		panic("LoadKey() not called")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, SeatClaims{
		SessionID: sessionID,
		Seat:      seat,
		StandardClaims: jwtgo.StandardClaims{
			ExpiresAt: now.Add(Lifetime).Unix(),
			Id:        uuid.New().String(),
			IssuedAt:  now.Unix(),
			Issuer:    Issuer,
		},
	})

	return token.SignedString(signingKey)
}

// ValidSeat will validate a signed rejoin token and return the session ID and seat
func ValidSeat(signedString string) (string, int, error) {
	if signingKey == nil {
		panic("LoadKey() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &SeatClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return signingKey, nil
	})
	if err != nil {
		return "", 0, err
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid || claims.Issuer != Issuer {
		return "", 0, ErrInvalidToken
	}

	if claims.SessionID == "" || claims.Seat < 0 || claims.Seat > 1 {
		return "", 0, ErrInvalidToken
	}

	return claims.SessionID, claims.Seat, nil
}
