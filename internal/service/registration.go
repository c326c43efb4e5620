package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"coding-club/internal/cache"

	"github.com/redis/go-redis/v9"
)

const RegistrationTokenTTL = 24 * time.Hour

var (
	ErrInvalidConfirmation = errors.New("invalid or expired confirmation token")

	randRead = rand.Read
)

func registrationKey(token string) string {
	return "registration:" + token
}

// IssueRegistrationToken 產生 32 bytes 的十六進位確認令牌並存入 Redis，值為 Email
func IssueRegistrationToken(ctx context.Context, c cache.Cache, email string) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("generate registration token: %w", err)
	}
	token := hex.EncodeToString(b)
	if err := c.Set(ctx, registrationKey(token), strings.ToLower(email), RegistrationTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store registration token: %w", err)
	}
	return token, nil
}

// ValidateRegistrationToken 確認令牌存在且屬於該 Email
func ValidateRegistrationToken(ctx context.Context, c cache.Cache, token, email string) error {
	stored, err := c.Get(ctx, registrationKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidConfirmation
	}
	if err != nil {
		return fmt.Errorf("load registration token: %w", err)
	}
	if stored != strings.ToLower(email) {
		return ErrInvalidConfirmation
	}
	return nil
}

func RevokeRegistrationToken(ctx context.Context, c cache.Cache, token string) error {
	return c.Del(ctx, registrationKey(token)).Err()
}
