package server

import (
	"net/http"

	"github.com/Luismorlan/yatube/app_setting"
	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/observability"
	"github.com/Luismorlan/yatube/server/middlewares"
	Logger "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server serves dependency injection for the handlers, add any dependency
// they require here.
type Server struct {
	DB        *gorm.DB
	Cache     cache.FragmentCache
	FileStore file_store.FileStore
	Setting   app_setting.YatubeAppSetting
	Metrics   *observability.Metrics
	Templates *TemplateRender
}

func New(db *gorm.DB, fragmentCache cache.FragmentCache, store file_store.FileStore, setting app_setting.YatubeAppSetting) (*Server, error) {
	templates, err := NewTemplateRender(store)
	if err != nil {
		return nil, err
	}
	return &Server{
		DB:        db,
		Cache:     fragmentCache,
		FileStore: store,
		Setting:   setting,
		Metrics:   observability.NewMetrics(),
		Templates: templates,
	}, nil
}

// db is the request scoped database handle.
func (s *Server) db(c *gin.Context) *gorm.DB {
	return s.DB.WithContext(c.Request.Context())
}

// html renders the page name with data plus the context every page reads:
// the current user and the request path.
func (s *Server) html(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user := middlewares.CurrentUser(c); user != nil {
		data["user"] = user
	} else {
		data["user"] = nil
	}
	data["request_path"] = c.Request.URL.Path
	c.HTML(status, name, data)
}

func (s *Server) notFound(c *gin.Context) {
	s.html(c, http.StatusNotFound, "core/404.html", gin.H{"path": c.Request.URL.Path})
	c.Abort()
}

func (s *Server) serverError(c *gin.Context, err error) {
	Logger.Log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	s.html(c, http.StatusInternalServerError, "core/500.html", nil)
	c.Abort()
}

// recovery renders the 500 page for handlers that panic.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		Logger.Log.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("handler panicked")
		s.html(c, http.StatusInternalServerError, "core/500.html", nil)
		c.Abort()
	})
}
