package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token validation failures.
var (
	ErrTokenInvalid  = errors.New("invalid download token")
	ErrTokenExpired  = errors.New("download token expired")
	ErrTokenMismatch = errors.New("download token does not match file")
)

// SignedURLSigner creates and validates signed download tokens bound to a file name.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner returns nil when secret is empty, meaning downloads are unsigned.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token of the form documentID.expiry.name.signature.
func (s *SignedURLSigner) Generate(documentID, fileName string) (string, time.Time, error) {
	if documentID == "" || fileName == "" {
		return "", time.Time{}, fmt.Errorf("documentID and fileName required")
	}
	if strings.Contains(documentID, ".") {
		return "", time.Time{}, fmt.Errorf("documentID must not contain '.'")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedName := base64.RawURLEncoding.EncodeToString([]byte(fileName))
	signature := s.sign(documentID, ts, encodedName)
	return strings.Join([]string{documentID, ts, encodedName, signature}, "."), expiresAt, nil
}

// Verify checks the token signature, expiry and that it was issued for fileName.
func (s *SignedURLSigner) Verify(token, fileName string) (documentID string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", time.Time{}, ErrTokenInvalid
	}
	documentID, ts, encodedName, signature := parts[0], parts[1], parts[2], parts[3]

	expected := s.sign(documentID, ts, encodedName)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", time.Time{}, ErrTokenInvalid
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	rawName, err := base64.RawURLEncoding.DecodeString(encodedName)
	if err != nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	if string(rawName) != fileName {
		return "", time.Time{}, ErrTokenMismatch
	}
	expiresAt = time.Unix(expUnix, 0)
	if s.now().After(expiresAt) {
		return "", time.Time{}, ErrTokenExpired
	}
	return documentID, expiresAt, nil
}

func (s *SignedURLSigner) sign(documentID, ts, encodedName string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(documentID + "|" + ts + "|" + encodedName))
	return hex.EncodeToString(mac.Sum(nil))
}
