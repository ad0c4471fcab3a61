package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleGuest = "guest"

	// DefaultTTL is how long a guest session token is valid.
	DefaultTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer signs and verifies guest session tokens. The session id in a token
// keys the server-held cart.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Session is an issued guest session.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (i *Issuer) Issue() (Session, error) {
	id := uuid.NewString()
	expires := i.now().Add(i.ttl)
	claims := jwt.MapClaims{
		"session_id": id,
		"role":       RoleGuest,
		"exp":        expires.Unix(),
		"iat":        i.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, Token: token, ExpiresAt: expires}, nil
}

// Parse returns the session id of a valid token.
func (i *Issuer) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	id, _ := claims["session_id"].(string)
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}

// POST /auth/guest
func CreateGuestSession(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := issuer.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
