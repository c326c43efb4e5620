package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"coding-club/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")

	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

const ResetTokenTTL = 15 * time.Minute

// 存取令牌與重設令牌共用金鑰，以 aud 區分用途
const (
	audienceAccess = "access"
	audienceReset  = "reset"
)

// CustomClaims 定義存取令牌負載內容
type CustomClaims struct {
	UserID int        `json:"id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin 回報令牌持有者是否為管理員
func (c *CustomClaims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// ResetClaims 為密碼重設令牌負載
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenTTL 依角色決定存取令牌有效期間
func TokenTTL(role model.Role) time.Duration {
	switch role {
	case model.RoleAdmin:
		return time.Hour
	case model.RoleStudent:
		return 30 * time.Minute
	default:
		return 24 * time.Hour
	}
}

// AuthenticateUser 以 bcrypt 比對使用者密碼
func AuthenticateUser(user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func secret() ([]byte, error) {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(s), nil
}

func sign(claims jwt.Claims) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parse(tokenString string, claims jwt.Claims, audience string) error {
	key, err := secret()
	if err != nil {
		return err
	}
	token, err := parseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithAudience(audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	now := timeNow()
	return sign(CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			Audience:  jwt.ClaimStrings{audienceAccess},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	if err := parse(tokenString, claims, audienceAccess); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("invalid token: missing user id")
	}
	return claims, nil
}

// IssueResetToken 產生 15 分鐘有效的密碼重設令牌
func IssueResetToken(email string) (string, error) {
	now := timeNow()
	return sign(ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceReset},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
	})
}

// VerifyResetToken 過期時回傳 ErrTokenExpired
func VerifyResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parse(tokenString, claims, audienceReset); err != nil {
		return nil, err
	}
	return claims, nil
}
