package server

import (
	"strings"

	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/server/middlewares"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every page of the site on router.
func SetupRoutes(router *gin.Engine, s *Server) {
	router.HTMLRender = s.Templates

	router.Use(s.recovery())
	router.Use(s.Metrics.Middleware())
	router.Use(middlewares.Authentication(s.DB, s.Setting.SECRET_KEY))

	router.GET("/", s.Index)
	router.GET("/group/:slug/", s.GroupPosts)
	router.GET("/profile/:username/", s.Profile)
	router.GET("/posts/:id/", s.PostDetail)

	login := router.Group("/", middlewares.LoginRequired())
	{
		login.GET("/create/", s.PostCreate)
		login.POST("/create/", s.PostCreate)
		login.GET("/posts/:id/edit/", s.PostEdit)
		login.POST("/posts/:id/edit/", s.PostEdit)
		login.POST("/posts/:id/comment", s.AddComment)
		login.GET("/follow/", s.FollowIndex)
		login.GET("/profile/:username/follow/", s.ProfileFollow)
		login.GET("/profile/:username/unfollow/", s.ProfileUnfollow)
	}

	auth := router.Group("/auth")
	{
		auth.GET("/signup/", s.Signup)
		auth.POST("/signup/", s.Signup)
		auth.GET("/login/", s.Login)
		auth.POST("/login/", s.Login)
		auth.GET("/logout/", s.Logout)
	}

	// S3 serves its own media
	if local, ok := s.FileStore.(*file_store.LocalFileStore); ok {
		router.Static(strings.TrimSuffix(s.Setting.MEDIA_URL, "/"), local.Root())
	}
	router.GET("/metrics", s.Metrics.Handler())

	router.NoRoute(s.notFound)
}
