package forms

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/yatube/model"
)

type commentInput struct {
	Text string `form:"text" binding:"required,notblank"`
}

type CommentForm struct {
	Form
	Text string
}

func NewCommentForm() *CommentForm {
	f := &CommentForm{}
	f.addField(&Field{
		Name:     "text",
		Kind:     TextField,
		Label:    "Text",
		HelpText: "Text of the comment",
		Required: true,
	})
	return f
}

func (f *CommentForm) Bind(req *http.Request) {
	var input commentInput
	f.bindRequest(req, &input)
	f.Text = strings.TrimSpace(input.Text)
	f.Fields["text"].Value = input.Text
}

// Comment builds the comment of a valid form.
func (f *CommentForm) Comment(author *model.User, post *model.Post) *model.Comment {
	return &model.Comment{Text: f.Text, AuthorID: author.Id, PostID: post.Id}
}
