package forms

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Luismorlan/yatube/model"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// PostData is the cleaned data of a valid PostForm.
type PostData struct {
	Text    string
	GroupID *uint
}

type postInput struct {
	Text  string `form:"text" binding:"required,notblank"`
	Group string `form:"group"`
}

// PostForm creates and edits posts: a required text, an optional group among
// the existing ones and an optional image.
type PostForm struct {
	Form
	PostData
	// Image is the uploaded file of a valid form, nil if none was sent.
	Image *multipart.FileHeader
	// ImageFormat is the decoded format of Image, e.g. "png".
	ImageFormat string
	groups      []model.Group
}

// NewPostForm returns an unbound form. Initial values are taken from instance
// when editing an existing post.
func NewPostForm(groups []model.Group, instance *model.Post) (*PostForm, error) {
	f := &PostForm{groups: groups}
	if instance != nil {
		if err := copier.Copy(&f.PostData, instance); err != nil {
			return nil, errors.Wrap(err, "fail to copy post into form")
		}
	}
	f.addField(&Field{
		Name:     "text",
		Kind:     TextField,
		Label:    "Text",
		HelpText: "Text of the new post",
		Required: true,
		Value:    f.Text,
	})
	f.addField(&Field{
		Name:     "group",
		Kind:     ChoiceField,
		Label:    "Group",
		HelpText: "Group the post will belong to",
	})
	f.addField(&Field{
		Name:  "image",
		Kind:  ImageField,
		Label: "Image",
	})
	f.refreshGroupChoices()
	return f, nil
}

func (f *PostForm) refreshGroupChoices() {
	selected := ""
	if f.GroupID != nil {
		selected = strconv.FormatUint(uint64(*f.GroupID), 10)
	}
	choices := []Choice{{Value: "", Label: "---------", Selected: selected == ""}}
	for _, g := range f.groups {
		value := strconv.FormatUint(uint64(g.Id), 10)
		choices = append(choices, Choice{Value: value, Label: g.Title, Selected: value == selected})
	}
	field := f.Fields["group"]
	field.Choices = choices
	field.Value = selected
}

// Bind validates the submitted request. Use IsValid afterwards.
func (f *PostForm) Bind(req *http.Request) {
	var input postInput
	f.bindRequest(req, &input)

	f.Text = strings.TrimSpace(input.Text)
	f.Fields["text"].Value = input.Text
	f.GroupID = nil

	if input.Group != "" {
		if group := f.findGroup(input.Group); group != nil {
			f.GroupID = &group.Id
		} else {
			f.AddError("group", MsgInvalidChoice)
		}
	}
	f.refreshGroupChoices()

	_, fh, err := req.FormFile("image")
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return
	}
	if err != nil {
		f.AddError("image", MsgInvalidImage)
		return
	}
	format, ok := validateUploadedImage(fh)
	if !ok {
		f.AddError("image", MsgInvalidImage)
		return
	}
	f.Image = fh
	f.ImageFormat = format
}

func (f *PostForm) findGroup(raw string) *model.Group {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	for i := range f.groups {
		if uint64(f.groups[i].Id) == id {
			return &f.groups[i]
		}
	}
	return nil
}

// ApplyTo writes the cleaned text and group into post. The image is stored
// by the caller since it needs a file store.
func (f *PostForm) ApplyTo(post *model.Post) {
	post.Text = f.Text
	post.GroupID = f.GroupID
	post.Group = nil
}
