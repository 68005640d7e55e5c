package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cat_connect/authorization"

	"github.com/cristalhq/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func jsonResponse(value interface{}, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(writer).Encode(value)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

func jsonError(message string, writer http.ResponseWriter) {
	_ = json.NewEncoder(writer).Encode(map[string]string{"error": message})
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

type requester struct {
	ID       primitive.ObjectID
	Username string
	Role     string
}

// requesterFromRequest resolves the caller from the Bearer token. Route-level
// access is already enforced by the policy middleware, this recovers the
// caller's identity for ownership checks.
func requesterFromRequest(req *http.Request, verifier jwt.Verifier) (*requester, error) {
	tokenString := extractBearerToken(req.Header.Get("Authorization"))
	if tokenString == "" {
		return nil, fmt.Errorf("authorization header missing or malformed")
	}

	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		return nil, err
	}

	claims := authorization.GetMapClaims(token.Bytes(), verifier)
	id, err := primitive.ObjectIDFromHex(claims["user_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token")
	}

	return &requester{
		ID:       id,
		Username: claims["username"],
		Role:     claims["role"],
	}, nil
}
