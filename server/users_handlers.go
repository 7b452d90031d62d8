package server

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/yatube/forms"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/server/middlewares"
	Logger "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	msgUsernameTaken = "A user with that username already exists."
	msgInvalidLogin  = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

// Signup registers a user and logs them in.
func (s *Server) Signup(c *gin.Context) {
	form := forms.NewSignupForm()
	if c.Request.Method == http.MethodPost {
		form.Bind(c.Request)
		if form.IsValid() {
			var count int64
			if err := s.db(c).Model(&model.User{}).Where("username = ?", form.Username).Count(&count).Error; err != nil {
				s.serverError(c, err)
				return
			}
			if count > 0 {
				form.AddError("username", msgUsernameTaken)
			}
		}
	}
	if !form.IsValid() {
		s.html(c, http.StatusOK, "users/signup.html", gin.H{"form": form})
		return
	}

	hash, err := middlewares.HashPassword(form.Password)
	if err != nil {
		s.serverError(c, err)
		return
	}
	user := model.User{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: hash,
	}
	if err := s.db(c).Create(&user).Error; err != nil {
		s.serverError(c, errors.Wrap(err, "fail to create user"))
		return
	}
	Logger.Log.WithField("username", user.Username).Info("user signed up")

	if err := middlewares.Login(c, &user, s.Setting.SECRET_KEY); err != nil {
		s.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) Login(c *gin.Context) {
	form := forms.NewLoginForm()
	next := c.Query(middlewares.RedirectFieldName)
	if c.Request.Method == http.MethodPost {
		next = c.PostForm(middlewares.RedirectFieldName)
		form.Bind(c.Request)
	}

	var user model.User
	if form.IsValid() {
		err := s.db(c).Where("username = ?", form.Username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			form.AddError("", msgInvalidLogin)
		case err != nil:
			s.serverError(c, err)
			return
		case !middlewares.CheckPassword(user.PasswordHash, form.Password):
			form.AddError("", msgInvalidLogin)
		}
	}
	if !form.IsValid() {
		s.html(c, http.StatusOK, "users/login.html", gin.H{"form": form, "next": next})
		return
	}

	if err := middlewares.Login(c, &user, s.Setting.SECRET_KEY); err != nil {
		s.serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(next))
}

func (s *Server) Logout(c *gin.Context) {
	middlewares.Logout(c)
	s.html(c, http.StatusOK, "users/logged_out.html", nil)
}

// safeRedirect only follows local absolute paths, anything else goes home.
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
