package server

import (
	"html/template"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/forms"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/paginator"
	"github.com/Luismorlan/yatube/server/middlewares"
	Logger "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const indexFragment = "index_page"

// paginatePosts loads the requested page of query, newest posts first.
func (s *Server) paginatePosts(c *gin.Context, query *gorm.DB) (*paginator.Page, error) {
	var posts []model.Post
	return paginator.Paginate(
		query,
		c.Query(paginator.PageQueryParam),
		s.Setting.PAGINATOR_COUNT,
		&posts,
		model.PostsNewestFirst,
		model.PostsWithRelations,
	)
}

func (s *Server) posts(c *gin.Context) *gorm.DB {
	return s.db(c).Model(&model.Post{})
}

// cachedFragment returns block of page from the fragment cache, rendering
// and storing it on a miss.
func (s *Server) cachedFragment(c *gin.Context, page string, block string, key string, data gin.H) (template.HTML, error) {
	ctx := c.Request.Context()
	if cached, ok := s.Cache.Get(ctx, key); ok {
		s.Metrics.CacheLookup(block, true)
		return template.HTML(cached), nil
	}
	s.Metrics.CacheLookup(block, false)

	fragment, err := s.Templates.RenderFragment(page, block, data)
	if err != nil {
		return "", err
	}
	s.Cache.Set(ctx, key, string(fragment), s.Setting.IndexCacheTTL())
	return fragment, nil
}

// Index lists every post. The list is cached per page for INDEX_CACHE_SECONDS
// so new posts show up once the entry expires or the cache is cleared.
func (s *Server) Index(c *gin.Context) {
	page, err := s.paginatePosts(c, s.posts(c))
	if err != nil {
		s.serverError(c, err)
		return
	}
	data := gin.H{"page_obj": page}
	fragment, err := s.cachedFragment(c, "posts/index.html", indexFragment, cache.FragmentKey(indexFragment, page.Number), data)
	if err != nil {
		s.serverError(c, err)
		return
	}
	data[indexFragment] = fragment
	s.html(c, http.StatusOK, "posts/index.html", data)
}

func (s *Server) GroupPosts(c *gin.Context) {
	var group model.Group
	if err := s.db(c).Where("slug = ?", c.Param("slug")).First(&group).Error; err != nil {
		s.lookupFailed(c, err)
		return
	}
	page, err := s.paginatePosts(c, s.posts(c).Where("posts.group_id = ?", group.Id))
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.html(c, http.StatusOK, "posts/group_list.html", gin.H{
		"group":    &group,
		"page_obj": page,
	})
}

func (s *Server) Profile(c *gin.Context) {
	author, ok := s.authorFromPath(c)
	if !ok {
		return
	}
	page, err := s.paginatePosts(c, s.posts(c).Where("posts.author_id = ?", author.Id))
	if err != nil {
		s.serverError(c, err)
		return
	}

	following := false
	user := middlewares.CurrentUser(c)
	if user != nil && user.Id != author.Id {
		var count int64
		err := s.db(c).Model(&model.Follow{}).
			Where("user_id = ? AND author_id = ?", user.Id, author.Id).
			Count(&count).Error
		if err != nil {
			s.serverError(c, err)
			return
		}
		following = count > 0
	}

	s.html(c, http.StatusOK, "posts/profile.html", gin.H{
		"author":     author,
		"page_obj":   page,
		"following":  following,
		"can_follow": user != nil && user.Id != author.Id,
	})
}

func (s *Server) PostDetail(c *gin.Context) {
	post, ok := s.postFromPath(c)
	if !ok {
		return
	}
	s.renderPostDetail(c, post, forms.NewCommentForm())
}

func (s *Server) renderPostDetail(c *gin.Context, post *model.Post, form *forms.CommentForm) {
	var comments []model.Comment
	err := s.db(c).Where("post_id = ?", post.Id).
		Preload("Author").
		Scopes(model.CommentsOldestFirst).
		Find(&comments).Error
	if err != nil {
		s.serverError(c, err)
		return
	}

	var authorPostCount int64
	if err := s.posts(c).Where("author_id = ?", post.AuthorID).Count(&authorPostCount).Error; err != nil {
		s.serverError(c, err)
		return
	}

	user := middlewares.CurrentUser(c)
	s.html(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"post":              post,
		"form":              form,
		"comments":          comments,
		"author_post_count": authorPostCount,
		"is_author":         user != nil && user.Id == post.AuthorID,
	})
}

func (s *Server) PostCreate(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	groups, err := s.allGroups(c)
	if err != nil {
		s.serverError(c, err)
		return
	}

	form, err := forms.NewPostForm(groups, nil)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if c.Request.Method == http.MethodPost {
		form.Bind(c.Request)
	}
	if !form.IsValid() {
		s.html(c, http.StatusOK, "posts/create_post.html", gin.H{"form": form})
		return
	}

	post := model.Post{AuthorID: user.Id}
	form.ApplyTo(&post)
	if form.Image != nil {
		key, err := s.storeImage(c, form.Image, form.ImageFormat)
		if err != nil {
			s.serverError(c, err)
			return
		}
		post.Image = key
	}
	if err := s.db(c).Omit(clause.Associations).Create(&post).Error; err != nil {
		s.serverError(c, errors.Wrap(err, "fail to create post"))
		return
	}
	s.Metrics.PostsCreatedTotal.Inc()
	Logger.Log.WithField("post_id", post.Id).WithField("author", user.Username).Info("post created")

	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// PostEdit lets the author change a post. Anyone else is sent back to the
// post without any change.
func (s *Server) PostEdit(c *gin.Context) {
	post, ok := s.postFromPath(c)
	if !ok {
		return
	}
	user := middlewares.CurrentUser(c)
	if post.AuthorID != user.Id {
		c.Redirect(http.StatusFound, postURL(post.Id))
		return
	}

	groups, err := s.allGroups(c)
	if err != nil {
		s.serverError(c, err)
		return
	}
	form, err := forms.NewPostForm(groups, post)
	if err != nil {
		s.serverError(c, err)
		return
	}
	if c.Request.Method == http.MethodPost {
		form.Bind(c.Request)
	}
	if !form.IsValid() {
		s.html(c, http.StatusOK, "posts/create_post.html", gin.H{
			"form":    form,
			"is_edit": true,
			"post":    post,
		})
		return
	}

	oldImage := post.Image
	form.ApplyTo(post)
	if form.Image != nil {
		key, err := s.storeImage(c, form.Image, form.ImageFormat)
		if err != nil {
			s.serverError(c, err)
			return
		}
		post.Image = key
	}
	err = s.db(c).Model(&model.Post{Id: post.Id}).Updates(map[string]interface{}{
		"text":     post.Text,
		"group_id": post.GroupID,
		"image":    post.Image,
	}).Error
	if err != nil {
		s.serverError(c, errors.Wrap(err, "fail to update post"))
		return
	}
	if oldImage != "" && oldImage != post.Image {
		if err := s.FileStore.Delete(c.Request.Context(), oldImage); err != nil {
			Logger.Log.WithError(err).WithField("key", oldImage).Warn("fail to delete replaced image")
		}
	}

	c.Redirect(http.StatusFound, postURL(post.Id))
}

// AddComment always lands back on the post, an invalid comment is dropped.
func (s *Server) AddComment(c *gin.Context) {
	post, ok := s.postFromPath(c)
	if !ok {
		return
	}
	form := forms.NewCommentForm()
	form.Bind(c.Request)
	if form.IsValid() {
		comment := form.Comment(middlewares.CurrentUser(c), post)
		if err := s.db(c).Omit(clause.Associations).Create(comment).Error; err != nil {
			s.serverError(c, errors.Wrap(err, "fail to create comment"))
			return
		}
		s.Metrics.CommentsCreatedTotal.Inc()
	}
	c.Redirect(http.StatusFound, postURL(post.Id))
}

// FollowIndex lists the posts of every author the current user follows.
func (s *Server) FollowIndex(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	followed := s.db(c).Model(&model.Follow{}).Select("author_id").Where("user_id = ?", user.Id)
	page, err := s.paginatePosts(c, s.posts(c).Where("posts.author_id IN (?)", followed))
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.html(c, http.StatusOK, "posts/follow.html", gin.H{"page_obj": page})
}

// ProfileFollow is idempotent, following yourself is ignored.
func (s *Server) ProfileFollow(c *gin.Context) {
	author, ok := s.authorFromPath(c)
	if !ok {
		return
	}
	user := middlewares.CurrentUser(c)
	if user.Id != author.Id {
		err := s.db(c).Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&model.Follow{UserID: user.Id, AuthorID: author.Id}).Error
		if err != nil {
			s.serverError(c, errors.Wrap(err, "fail to follow author"))
			return
		}
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (s *Server) ProfileUnfollow(c *gin.Context) {
	author, ok := s.authorFromPath(c)
	if !ok {
		return
	}
	user := middlewares.CurrentUser(c)
	err := s.db(c).Where("user_id = ? AND author_id = ?", user.Id, author.Id).Delete(&model.Follow{}).Error
	if err != nil {
		s.serverError(c, errors.Wrap(err, "fail to unfollow author"))
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

// storeImage keys the upload by its decoded format, never by the client filename.
func (s *Server) storeImage(c *gin.Context, fh *multipart.FileHeader, format string) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "fail to open uploaded image")
	}
	defer file.Close()
	return s.FileStore.Store(c.Request.Context(), format, file)
}

func (s *Server) allGroups(c *gin.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := s.db(c).Order("title").Find(&groups).Error; err != nil {
		return nil, errors.Wrap(err, "fail to list groups")
	}
	return groups, nil
}

// postFromPath loads the post named by the :id param, rendering 404 when it
// does not exist.
func (s *Server) postFromPath(c *gin.Context) (*model.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.notFound(c)
		return nil, false
	}
	var post model.Post
	if err := s.db(c).Scopes(model.PostsWithRelations).First(&post, id).Error; err != nil {
		s.lookupFailed(c, err)
		return nil, false
	}
	return &post, true
}

func (s *Server) authorFromPath(c *gin.Context) (*model.User, bool) {
	var author model.User
	if err := s.db(c).Where("username = ?", c.Param("username")).First(&author).Error; err != nil {
		s.lookupFailed(c, err)
		return nil, false
	}
	return &author, true
}

// lookupFailed renders 404 for missing rows and 500 for anything else.
func (s *Server) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.notFound(c)
		return
	}
	s.serverError(c, err)
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
