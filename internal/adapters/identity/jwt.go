package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"movesbook/internal/domain/user"
)

// TokenDuration is how long a locally minted identity token stays valid.
const TokenDuration = 24 * time.Hour

// Verifier validates identity-provider bearer tokens and extracts the
// authenticated user. Tokens are HS256 signed with a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a token verifier for the given shared secret.
// PRE: secret is non-empty
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a bearer token.
// PRE: tokenString is the raw compact JWT
// POST: Returns the user carried in the claims, or an error for any
// malformed, expired, or wrongly signed token
func (v *Verifier) Verify(tokenString string) (user.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return user.User{}, fmt.Errorf("invalid identity token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return user.User{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !user.IsValidRole(role) {
		return user.User{}, fmt.Errorf("invalid identity payload")
	}

	name, _ := claims["name"].(string)
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	u := user.User{
		ID:       sub,
		Name:     name,
		Username: username,
		Email:    email,
		Role:     role,
	}
	if err := u.Validate(); err != nil {
		return user.User{}, fmt.Errorf("invalid identity payload: %w", err)
	}
	return u, nil
}

// Signer mints identity tokens for development accounts. Production
// deployments receive tokens from the real identity provider and only
// need the Verifier.
type Signer struct {
	secret []byte
}

// NewSigner creates a token signer for the given shared secret.
// PRE: secret is non-empty
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign mints a bearer token for the given user.
// PRE: u has been validated
// POST: Returns a compact HS256 JWT valid for TokenDuration
func (s *Signer) Sign(u user.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"name":     u.Name,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
