package paginator

import (
	"fmt"
	"testing"

	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, New(0, 10).NumPages())
	assert.Equal(t, 1, New(10, 10).NumPages())
	assert.Equal(t, 2, New(11, 10).NumPages())
	assert.Equal(t, 3, New(21, 10).NumPages())
}

func TestGetPage(t *testing.T) {
	p := New(11, 10)
	cases := []struct {
		raw      string
		expected int
	}{
		{"", 1},
		{"1", 1},
		{"2", 2},
		{"3", 2},
		{"0", 2},
		{"-1", 2},
		{"abc", 1},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("page=%q", c.raw), func(t *testing.T) {
			assert.Equal(t, c.expected, p.GetPage(c.raw).Number)
		})
	}
}

func TestPageMetadata(t *testing.T) {
	p := New(11, 10)

	first := p.GetPage("1")
	assert.Equal(t, 10, first.Len())
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())
	assert.Equal(t, 2, first.NextPageNumber())
	assert.Equal(t, 1, first.StartIndex())
	assert.Equal(t, 10, first.EndIndex())

	last := p.GetPage("2")
	assert.Equal(t, 1, last.Len())
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
	assert.Equal(t, 1, last.PreviousPageNumber())
	assert.Equal(t, 11, last.StartIndex())
	assert.Equal(t, 11, last.EndIndex())
	assert.Empty(t, cmp.Diff([]int{1, 2}, last.PageRange()))

	empty := New(0, 10).GetPage("5")
	assert.Equal(t, 1, empty.Number)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, empty.StartIndex())
	assert.False(t, empty.HasOtherPages())
}

func TestPaginate(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := utils.TestCreateUser(t, db, "paginated_author")

	perPage := 10
	posts := []model.Post{}
	for i := 0; i < perPage+1; i++ {
		posts = append(posts, model.Post{Text: fmt.Sprintf("post %d", i), AuthorID: author.Id})
	}
	require.Nil(t, db.Omit(clause.Associations).Create(&posts).Error)

	query := db.Model(&model.Post{})

	var first []model.Post
	page, err := Paginate(query, "", perPage, &first, model.PostsNewestFirst)
	require.Nil(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, int64(perPage+1), page.Count())
	assert.Len(t, first, perPage)

	var second []model.Post
	page, err = Paginate(query, "2", perPage, &second, model.PostsNewestFirst)
	require.Nil(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, second, 1)
	assert.Equal(t, &second, page.Items)

	// pages never overlap
	for _, p := range first {
		assert.NotEqual(t, second[0].Id, p.Id)
	}
}

func TestPaginateOrdersOnlyTheLoad(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	author := utils.TestCreateUser(t, db, "ordered_author")
	older := utils.TestCreatePost(t, db, "older", author, nil)
	newer := utils.TestCreatePost(t, db, "newer", author, nil)

	var statements []string
	require.Nil(t, db.Callback().Query().After("gorm:query").Register("test:record_sql", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}))

	var posts []model.Post
	_, err := Paginate(db.Model(&model.Post{}), "", 10, &posts, model.PostsNewestFirst)
	require.Nil(t, err)

	require.Len(t, statements, 2)
	assert.Contains(t, statements[0], "count(*)")
	assert.NotContains(t, statements[0], "ORDER BY")
	assert.Contains(t, statements[1], "ORDER BY")
	assert.Contains(t, statements[1], "LIMIT")

	require.Len(t, posts, 2)
	assert.Equal(t, newer.Id, posts[0].Id)
	assert.Equal(t, older.Id, posts[1].Id)
}
