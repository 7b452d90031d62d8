package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Luismorlan/yatube/app_setting"
	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/paginator"
	"github.com/Luismorlan/yatube/server/middlewares"
	"github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "server-test-secret"

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// recordingRender remembers the last page rendered and its context.
type recordingRender struct {
	inner    render.HTMLRender
	template string
	context  gin.H
}

func (r *recordingRender) Instance(name string, data interface{}) render.Render {
	r.template = name
	r.context, _ = data.(gin.H)
	return r.inner.Instance(name, data)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	server *Server
	router *gin.Engine
	render *recordingRender
	store  *file_store.FakeFileStore
	cache  *cache.LRUFragmentCache
}

func newTestEnv(t *testing.T) *testEnv {
	db, _ := utils.CreateTempDB(t)
	fragmentCache, err := cache.NewLRUFragmentCache(64)
	require.Nil(t, err)
	store := file_store.NewFakeFileStore()

	setting := app_setting.DefaultYatubeAppSetting()
	setting.SECRET_KEY = testSecret
	s, err := New(db, fragmentCache, store, setting)
	require.Nil(t, err)

	router := gin.New()
	SetupRoutes(router, s)
	rec := &recordingRender{inner: s.Templates}
	router.HTMLRender = rec

	return &testEnv{
		t:      t,
		db:     db,
		server: s,
		router: router,
		render: rec,
		store:  store,
		cache:  fragmentCache,
	}
}

func (e *testEnv) do(method string, path string, body io.Reader, contentType string, user *model.User) *httptest.ResponseRecorder {
	e.t.Helper()
	e.render.template = ""
	e.render.context = nil

	req, err := http.NewRequest(method, path, body)
	require.Nil(e.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != nil {
		token, err := middlewares.IssueSessionToken(user, testSecret, time.Now())
		require.Nil(e.t, err)
		req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, user *model.User) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do("GET", path, nil, "", user)
}

func (e *testEnv) postForm(path string, values url.Values, user *model.User) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do("POST", path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", user)
}

// postMultipart submits fields plus, when image is not nil, an "image" file.
func (e *testEnv) postMultipart(path string, fields map[string]string, fileName string, image []byte, user *model.User) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.Nil(e.t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", fileName)
		require.Nil(e.t, err)
		_, err = fw.Write(image)
		require.Nil(e.t, err)
	}
	require.Nil(e.t, mw.Close())
	return e.do("POST", path, &buf, mw.FormDataContentType(), user)
}

func (e *testEnv) document(w *httptest.ResponseRecorder) *goquery.Document {
	e.t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(w.Body.Bytes()))
	require.Nil(e.t, err)
	return doc
}

func pagePosts(t *testing.T, context gin.H) []model.Post {
	t.Helper()
	page, ok := context["page_obj"].(*paginator.Page)
	require.True(t, ok, "page_obj is missing from the context")
	posts, ok := page.Items.(*[]model.Post)
	require.True(t, ok)
	return *posts
}
