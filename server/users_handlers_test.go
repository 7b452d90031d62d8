package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/Luismorlan/yatube/forms"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/server/middlewares"
	"github.com/Luismorlan/yatube/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w *http.Response) *http.Cookie {
	for _, c := range w.Cookies() {
		if c.Name == middlewares.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	e := newTestEnv(t)

	w := e.postForm("/auth/signup/", url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {"leo"},
		"email":      {"leo@example.com"},
		"password1":  {"war-and-peace"},
		"password2":  {"war-and-peace"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	id, err := middlewares.ParseSessionToken(cookie.Value, testSecret)
	require.Nil(t, err)

	var user model.User
	require.Nil(t, e.db.First(&user, id).Error)
	assert.Equal(t, "leo", user.Username)
	assert.Equal(t, "Leo Tolstoy", user.FullName())
	assert.True(t, middlewares.CheckPassword(user.PasswordHash, "war-and-peace"))
}

func TestSignupInvalid(t *testing.T) {
	e := newTestEnv(t)
	utils.TestCreateUser(t, e.db, "taken")

	w := e.postForm("/auth/signup/", url.Values{
		"username":  {"taken"},
		"password1": {"long-enough"},
		"password2": {"long-enough"},
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	form := e.render.context["form"].(*forms.SignupForm)
	assert.Equal(t, []string{msgUsernameTaken}, form.Field("username").Errors)

	w = e.postForm("/auth/signup/", url.Values{
		"username":  {"fresh"},
		"password1": {"long-enough"},
		"password2": {"different"},
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	form = e.render.context["form"].(*forms.SignupForm)
	assert.Equal(t, []string{forms.MsgPasswordsDiffer}, form.Field("password2").Errors)

	var count int64
	require.Nil(t, e.db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	user := utils.TestCreateUser(t, e.db, "leo")

	e.get("/auth/login/?next=/create/", nil)
	assert.Equal(t, "/create/", e.render.context["next"])

	w := e.postForm("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {utils.TestPassword},
		"next":     {"/create/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/create/", w.Header().Get("Location"))
	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	id, err := middlewares.ParseSessionToken(cookie.Value, testSecret)
	require.Nil(t, err)
	assert.Equal(t, user.Id, id)

	// never redirect off site
	w = e.postForm("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {utils.TestPassword},
		"next":     {"//evil.example.com/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoginReturnsToRequestedPage(t *testing.T) {
	e := newTestEnv(t)
	utils.TestCreateUser(t, e.db, "leo")

	w := e.get("/follow/?page=2", nil)
	require.Equal(t, http.StatusFound, w.Code)
	loginPage := w.Header().Get("Location")

	e.get(loginPage, nil)
	assert.Equal(t, "users/login.html", e.render.template)
	next, _ := e.render.context["next"].(string)
	assert.Equal(t, "/follow/?page=2", next)

	w = e.postForm("/auth/login/", url.Values{
		"username": {"leo"},
		"password": {utils.TestPassword},
		"next":     {next},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/?page=2", w.Header().Get("Location"))
}

func TestLoginInvalid(t *testing.T) {
	e := newTestEnv(t)
	utils.TestCreateUser(t, e.db, "leo")

	for _, values := range []url.Values{
		{"username": {"leo"}, "password": {"wrong-password"}},
		{"username": {"nobody"}, "password": {utils.TestPassword}},
	} {
		w := e.postForm("/auth/login/", values, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, sessionCookie(w.Result()))
		form := e.render.context["form"].(*forms.LoginForm)
		assert.Equal(t, []string{msgInvalidLogin}, form.NonFieldErrors)
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	user := utils.TestCreateUser(t, e.db, "leo")

	w := e.get("/auth/logout/", user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, e.render.context["user"])
	cookie := sessionCookie(w.Result())
	require.NotNil(t, cookie)
	assert.Equal(t, "", cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestSafeRedirect(t *testing.T) {
	for next, want := range map[string]string{
		"":                  "/",
		"/posts/1/":         "/posts/1/",
		"https://evil.com/": "/",
		"//evil.com/":       "/",
		"/\\evil.com":       "/",
	} {
		assert.Equal(t, want, safeRedirect(next), next)
	}
}
