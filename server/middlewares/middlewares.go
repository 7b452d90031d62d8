package middlewares

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/yatube/model"
	Logger "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	SessionCookieName = "yatube_session"
	SessionTTL        = 14 * 24 * time.Hour

	// CurrentUserKey is the gin context key of the authenticated *model.User.
	CurrentUserKey = "current_user"

	LoginURL          = "/auth/login/"
	RedirectFieldName = "next"
)

// IssueSessionToken signs a session token for user that expires after
// SessionTTL.
func IssueSessionToken(user *model.User, secret string, now time.Time) (string, error) {
	claims := jwt.StandardClaims{
		Id:        uuid.New().String(),
		Subject:   strconv.FormatUint(uint64(user.Id), 10),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(SessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "fail to sign session token")
	}
	return signed, nil
}

// ParseSessionToken verifies the signature and expiry of a session token and
// returns the user id it carries.
func ParseSessionToken(raw string, secret string) (uint, error) {
	claims := &jwt.StandardClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "invalid session token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("invalid session subject %q", claims.Subject)
	}
	return uint(id), nil
}

// Login issues the session cookie of user on the response.
func Login(c *gin.Context, user *model.User, secret string) error {
	token, err := IssueSessionToken(user, secret, time.Now())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(SessionTTL.Seconds()), "/", "", false, true)
	c.Set(CurrentUserKey, user)
	return nil
}

// Logout expires the session cookie.
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.Set(CurrentUserKey, (*model.User)(nil))
}

// Authentication resolves the session cookie into the current user. Requests
// without a valid session continue anonymously, a broken cookie is cleared.
func Authentication(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		userID, err := ParseSessionToken(raw, secret)
		if err != nil {
			Logger.Log.WithError(err).Debug("dropping session cookie")
			Logout(c)
			c.Next()
			return
		}

		var user model.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				Logger.Log.WithError(err).Error("fail to load session user")
			}
			Logout(c)
			c.Next()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// CurrentUser is the authenticated user of the request, nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// LoginRequired redirects anonymous requests to the login page, passing the
// requested path and query in "next".
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirectURL query-escapes next. Slashes are left readable.
func LoginRedirectURL(next string) string {
	query := url.Values{RedirectFieldName: {next}}.Encode()
	return LoginURL + "?" + strings.ReplaceAll(query, "%2F", "/")
}
