package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrHashMismatch means the initData signature does not match the bot token.
	ErrHashMismatch = errors.New("telegram init data hash mismatch")
	// ErrInitDataExpired means the auth_date is older than the allowed window.
	ErrInitDataExpired = errors.New("telegram init data expired")
	errMissingHash     = errors.New("telegram init data missing hash")
	errMissingUser     = errors.New("telegram init data missing user")
)

// InitDataUser is the user object embedded in Telegram Mini App init data.
type InitDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Language  string `json:"language_code"`
}

// VerifyInitData checks the Mini App initData query string against the bot
// token per the Bot API signing scheme and returns the embedded user.
// https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
func VerifyInitData(botToken, initData string, maxAge time.Duration, now time.Time) (*InitDataUser, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, errMissingHash
	}
	values.Del("hash")

	// data-check-string: sorted key=value pairs joined by newlines.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(wantHash), []byte(gotHash)) {
		return nil, ErrHashMismatch
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid auth_date: %w", err)
		}
		if now.Sub(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrInitDataExpired
		}
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return nil, errMissingUser
	}
	var user InitDataUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, fmt.Errorf("decode init data user: %w", err)
	}
	if user.ID == 0 {
		return nil, errMissingUser
	}
	return &user, nil
}
