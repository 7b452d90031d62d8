package middlewares

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *model.User, string) {
	gin.SetMode(gin.TestMode)
	db, _ := utils.CreateTempDB(t)
	user := utils.TestCreateUser(t, db, "leo")

	router := gin.New()
	router.Use(Authentication(db, testSecret))
	router.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	router.GET("/create/", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "form")
	})
	router.GET("/follow/", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "feed")
	})
	router.GET("/profile/:username/follow/", LoginRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("username"))
	})

	token, err := IssueSessionToken(user, testSecret, time.Now())
	require.Nil(t, err)
	return router, user, token
}

func get(router *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	router.ServeHTTP(w, req)
	return w
}

func TestSessionTokenRoundTrip(t *testing.T) {
	user := &model.User{Id: 42}
	token, err := IssueSessionToken(user, testSecret, time.Now())
	require.Nil(t, err)

	id, err := ParseSessionToken(token, testSecret)
	require.Nil(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseSessionToken(token, "another-secret")
	assert.NotNil(t, err)
}

func TestExpiredSessionToken(t *testing.T) {
	token, err := IssueSessionToken(&model.User{Id: 1}, testSecret, time.Now().Add(-SessionTTL-time.Hour))
	require.Nil(t, err)
	_, err = ParseSessionToken(token, testSecret)
	assert.NotNil(t, err)
}

func TestAuthentication(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := get(router, "/whoami", token)
	assert.Equal(t, "leo", w.Body.String())

	w = get(router, "/whoami", "")
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(router, "/whoami", "garbage")
	assert.Equal(t, "anonymous", w.Body.String())
	// broken cookie is cleared
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookieName+"=;")
}

func TestAuthenticationDeletedUser(t *testing.T) {
	token, err := IssueSessionToken(&model.User{Id: 9999}, testSecret, time.Now())
	require.Nil(t, err)
	router, _, _ := newTestRouter(t)

	w := get(router, "/whoami", token)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestLoginRequired(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := get(router, "/create/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))

	w = get(router, "/create/", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "form", w.Body.String())
}

func TestLoginRequiredKeepsRequestURI(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []struct {
		path string
		next string
	}{
		{"/follow/?page=2", "/follow/?page=2"},
		{"/follow/?page=2&x=1", "/follow/?page=2&x=1"},
		{"/profile/a+b/follow/", "/profile/a+b/follow/"},
		{"/profile/a%26b/follow/", "/profile/a%26b/follow/"},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			w := get(router, c.path, "")
			require.Equal(t, http.StatusFound, w.Code)
			location, err := url.Parse(w.Header().Get("Location"))
			require.Nil(t, err)
			assert.Equal(t, LoginURL, location.Path)
			assert.Equal(t, []string{c.next}, location.Query()[RedirectFieldName])
		})
	}
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2%26x%3D1", LoginRedirectURL("/follow/?page=2&x=1"))
	assert.Equal(t, "/auth/login/?next=/profile/a%2Bb/", LoginRedirectURL("/profile/a+b/"))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.Nil(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "correct horse"))
}
