package auth

import (
	"log"

	"github.com/go-chi/jwtauth/v5"

	"github.com/getveil/veil/config"
)

const JwtAlg = "HS256"

// TokenAuth builds the JWT codec from the configured secret.
// Requires that VEIL_AUTH_SECRET is set in the environment.
func TokenAuth(cfg *config.Config) *jwtauth.JWTAuth {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure VEIL_AUTH_SECRET is set in your environment.")
	}
	return jwtauth.New(JwtAlg, secret, nil)
}

// GenerateJWT generates a JWT token using the given config.
func GenerateJWT(cfg *config.Config) string {
	tokenAuth := TokenAuth(cfg)
	_, tokenString, err := tokenAuth.Encode(nil)
	if err != nil {
		log.Fatal("Error generating auth token: ", err)
	}

	return tokenString
}
