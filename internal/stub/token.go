package stub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the stub's session token.
const SessionCookie = "sira_session"

const sessionTTL = 12 * time.Hour

type sessionClaims struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	Clearance    int    `json:"clearance"`
	StudentPKID  *int64 `json:"student_pk_id,omitempty"`
	InstructorID *int64 `json:"instructor_id,omitempty"`
	jwt.RegisteredClaims
}

func signSession(secret string, user User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username:     user.Username,
		Role:         user.Role,
		Clearance:    user.ClearanceLevel,
		StudentPKID:  user.StudentPKID,
		InstructorID: user.InstructorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseSession(secret, token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}
