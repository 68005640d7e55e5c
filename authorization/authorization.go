package authorization

import (
	"log"

	"github.com/cristalhq/jwt/v4"
)

// Verifier is built once from the configured secret and injected everywhere a
// token has to be checked. No package-level secret.
func NewVerifier(secretKey []byte) (jwt.Verifier, error) {
	return jwt.NewVerifierHS(jwt.HS256, secretKey)
}

func GetToken(tokenString string, verifier jwt.Verifier) *jwt.Token {
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
	}
	return token
}

func GetMapClaims(tokenBytes []byte, verifier jwt.Verifier) map[string]string {
	var claims map[string]string

	err := jwt.ParseClaims(tokenBytes, verifier, &claims)
	if err != nil {
		log.Println(err)
	}

	return claims
}
