package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/yiyuan-9527/YiyuanBlog/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Token 类型, access 用于访问接口, refresh 只用于换发新的 access
const (
	TokenTypeAccess      = "access"
	TokenTypeRefresh     = "refresh"
	TokenTypeEmailVerify = "email_verify"
)

// AuthClaims 用于登录认证
type AuthClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Type  string `json:"type"` // "access" 或 "refresh"
	jwt.RegisteredClaims
}

// EmailClaims 用于邮箱验证
type EmailClaims struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Type  string `json:"type"` // "email_verify"
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func generateAuthToken(id uint, email string, tokenType string, duration time.Duration) (string, error) {
	claims := AuthClaims{
		ID:    id,
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "yiyuan-blog",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// GenerateAccessToken 生成访问 token
func GenerateAccessToken(id uint, email string) (string, error) {
	weeks := config.Get().JWT.AccessExpirationWeeks
	if weeks <= 0 {
		weeks = 4
	}
	return generateAuthToken(id, email, TokenTypeAccess, time.Duration(weeks)*7*24*time.Hour)
}

// GenerateRefreshToken 生成刷新 token
func GenerateRefreshToken(id uint, email string) (string, error) {
	weeks := config.Get().JWT.RefreshExpirationWeeks
	if weeks <= 0 {
		weeks = 12
	}
	return generateAuthToken(id, email, TokenTypeRefresh, time.Duration(weeks)*7*24*time.Hour)
}

func parseAuthToken(tokenString string, wantType string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		if claims.Type != wantType {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ParseAccessToken 解析访问 token, 类型不符时报错
func ParseAccessToken(tokenString string) (*AuthClaims, error) {
	return parseAuthToken(tokenString, TokenTypeAccess)
}

// ParseRefreshToken 解析刷新 token, 类型不符时报错
func ParseRefreshToken(tokenString string) (*AuthClaims, error) {
	return parseAuthToken(tokenString, TokenTypeRefresh)
}

// GenerateEmailToken 生成邮箱验证 token
func GenerateEmailToken(id uint, email string) (string, error) {
	hours := config.Get().JWT.EmailExpirationHours
	if hours <= 0 {
		hours = 1
	}
	claims := EmailClaims{
		ID:    id,
		Email: email,
		Type:  TokenTypeEmailVerify,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(hours) * time.Hour)),
			Issuer:    "yiyuan-blog",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseEmailToken(tokenString string) (*EmailClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EmailClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*EmailClaims); ok && token.Valid {
		if claims.Type != TokenTypeEmailVerify {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
