package util

import (
	"froggocodes_backend/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func testUser() *model.User {
	return &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "student@example.com",
		Role:      model.Student,
	}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), "jwt-secret", time.Hour)
	assert.NoError(t, err)

	claims, err := ParseJWT(token, "jwt-secret")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, jwtIssuer, claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "jwt-secret", time.Hour)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "jwt-secret", -time.Minute)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "jwt-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

// 别家签发的 HS256 令牌即使密钥碰巧相同也要拒绝
func TestParseJWTWrongIssuer(t *testing.T) {
	claims := &Claims{
		UserID: 42,
		Role:   model.Student,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	assert.NoError(t, err)

	_, err = ParseJWT(token, "jwt-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

// alg=none 一律拒绝
func TestParseJWTRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: 42}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = ParseJWT(token, "jwt-secret")
	assert.Error(t, err)
}
