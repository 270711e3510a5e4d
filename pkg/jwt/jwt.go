package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "forumcore"

type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	mySecret                   = []byte("forumcore-dev-secret")
	AccessTokenExpireDuration  = 10 * time.Minute
	RefreshTokenExpireDuration = 30 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Init 用配置覆盖默认密钥和有效期，空值保持默认
func Init(secret string, accessTTL, refreshTTL time.Duration) {
	if secret != "" {
		mySecret = []byte(secret)
	}
	if accessTTL > 0 {
		AccessTokenExpireDuration = accessTTL
	}
	if refreshTTL > 0 {
		RefreshTokenExpireDuration = refreshTTL
	}
}

func keyFunc(*jwt.Token) (any, error) {
	return mySecret, nil
}

// GenToken 生成访问令牌和刷新令牌
func GenToken(userID int64, username string) (aToken, rToken string, err error) {
	now := time.Now()
	c := UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpireDuration)),
			Issuer:    issuer,
		},
	}
	aToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(mySecret)
	if err != nil {
		return "", "", err
	}

	rToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenExpireDuration)),
		Issuer:    issuer,
	}).SignedString(mySecret)
	if err != nil {
		return "", "", err
	}
	return aToken, rToken, nil
}

// ParseToken 解析访问令牌
func ParseToken(tokenString string) (*UserClaims, error) {
	mc := new(UserClaims)
	token, err := jwt.ParseWithClaims(tokenString, mc, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return mc, nil
}

// ParseRefreshToken 校验刷新令牌并返回其中的用户ID
func ParseRefreshToken(rTokenString string) (int64, error) {
	claims := new(jwt.RegisteredClaims)
	token, err := jwt.ParseWithClaims(rTokenString, claims, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
