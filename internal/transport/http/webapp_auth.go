package httpt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"tgstore/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InitDataHeader carries the raw init data string the Telegram web app hands
// to the front end.
const InitDataHeader = "X-Telegram-Init-Data"

const (
	_identityKey    = "telegram_identity"
	_maxInitDataAge = 24 * time.Hour
)

var (
	errMissingInitData = errors.New("missing init data")
	errMissingHash     = errors.New("init data has no hash field")
	errBadSignature    = errors.New("init data signature mismatch")
	errStaleInitData   = errors.New("init data is too old")
)

// Identity is the caller extracted from a validated web-app payload. UserID
// is zero when the payload carries no user object; handlers treat that as an
// anonymous-but-trusted caller.
type Identity struct {
	UserID   int64
	Username string
}

// WebAppAuth validates Telegram web-app init data: the hash field must be the
// HMAC-SHA256 of the remaining fields keyed by HMAC-SHA256("WebAppData", bot
// token), and auth_date must be recent.
type WebAppAuth struct {
	token  string
	maxAge time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewWebAppAuth(token string, log logger.Logger) *WebAppAuth {
	return &WebAppAuth{
		token:  token,
		maxAge: _maxInitDataAge,
		now:    time.Now,
		log:    log,
	}
}

func (a *WebAppAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.Validate(c.GetHeader(InitDataHeader))
		if err != nil {
			a.log.Ctx(c.Request.Context()).Warnw("web-app auth rejected",
				"error", err,
				"client_ip", c.ClientIP(),
			)
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				ErrorResponse{Error: "Invalid Telegram credentials"},
			)
			return
		}

		c.Set(_identityKey, identity)
		c.Next()
	}
}

// CallerIdentity returns the identity stored by the auth middleware, or a
// zero identity when the route is not guarded.
func CallerIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(_identityKey); ok {
		if identity, ok := v.(Identity); ok {
			return identity
		}
	}
	return Identity{}
}

func (a *WebAppAuth) Validate(raw string) (Identity, error) {
	const op = "transport.WebAppAuth.Validate"

	if raw == "" {
		return Identity{}, fmt.Errorf("%s: %w", op, errMissingInitData)
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%s: parse init data: %w", op, err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return Identity{}, fmt.Errorf("%s: %w", op, errMissingHash)
	}
	values.Del("hash")

	if !hmac.Equal([]byte(a.signature(values)), []byte(gotHash)) {
		return Identity{}, fmt.Errorf("%s: %w", op, errBadSignature)
	}

	if err = a.checkFreshness(values.Get("auth_date")); err != nil {
		return Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	return parseIdentity(values.Get("user"))
}

func (a *WebAppAuth) signature(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	dataCheckString := strings.Join(pairs, "\n")

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(a.token))

	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(dataCheckString))

	return hex.EncodeToString(mac.Sum(nil))
}

func (a *WebAppAuth) checkFreshness(rawAuthDate string) error {
	if rawAuthDate == "" {
		return nil
	}

	authDate, err := strconv.ParseInt(rawAuthDate, 10, 64)
	if err != nil {
		return fmt.Errorf("parse auth_date: %w", err)
	}

	if a.now().Sub(time.Unix(authDate, 0)) > a.maxAge {
		return errStaleInitData
	}
	return nil
}

// parseIdentity tolerates a missing user object: the resulting zero UserID
// skips the ownership check downstream.
func parseIdentity(rawUser string) (Identity, error) {
	if rawUser == "" {
		return Identity{}, nil
	}

	var user struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Identity{}, fmt.Errorf("transport.parseIdentity: %w", err)
	}

	return Identity{UserID: user.ID, Username: user.Username}, nil
}
