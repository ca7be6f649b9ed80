package session

import "github.com/golang-jwt/jwt/v5"

// viewerIdFromToken decodes the JWT payload without verifying the
// signature. The client holds no signing key and does not need one: the
// userId claim is only used for local display decisions (vote membership,
// stance lock). The backend re-verifies the token on every request.
func viewerIdFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if id, ok := claims["userId"].(string); ok {
		return id
	}
	return ""
}
