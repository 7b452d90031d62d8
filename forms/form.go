// Package forms binds submitted html forms, validates them and keeps per
// field errors for re-rendering.
package forms

import (
	"mime"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldKind string

const (
	CharField     FieldKind = "char"
	TextField     FieldKind = "text"
	ChoiceField   FieldKind = "choice"
	ImageField    FieldKind = "image"
	EmailField    FieldKind = "email"
	PasswordField FieldKind = "password"
)

const (
	MsgRequired        = "This field is required."
	MsgInvalidChoice   = "Select a valid choice. That choice is not one of the available choices."
	MsgInvalidImage    = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgInvalidEmail    = "Enter a valid email address."
	MsgInvalidValue    = "Enter a valid value."
	MsgPasswordsDiffer = "The two password fields didn’t match."
	MsgInvalidUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Report html field names instead of struct field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegexp.MatchString(fl.Field().String())
	})
}

type Choice struct {
	Value    string
	Label    string
	Selected bool
}

type Field struct {
	Name     string
	Kind     FieldKind
	Label    string
	HelpText string
	Required bool
	// Value is the submitted value of a bound form, or the initial one.
	Value   string
	Choices []Choice
	Errors  []string
}

func (f *Field) HasErrors() bool {
	return len(f.Errors) > 0
}

// Form is the state shared by every form: its fields in rendering order and
// the errors found while binding.
type Form struct {
	Fields         map[string]*Field
	NonFieldErrors []string
	order          []string
	bound          bool
}

func (f *Form) addField(field *Field) {
	if f.Fields == nil {
		f.Fields = map[string]*Field{}
	}
	f.Fields[field.Name] = field
	f.order = append(f.order, field.Name)
}

// OrderedFields returns the fields in declaration order.
func (f *Form) OrderedFields() []*Field {
	fields := make([]*Field, 0, len(f.order))
	for _, name := range f.order {
		fields = append(fields, f.Fields[name])
	}
	return fields
}

func (f *Form) Field(name string) *Field {
	return f.Fields[name]
}

// AddError attaches msg to the named field, or to the form itself when the
// form has no such field.
func (f *Form) AddError(name string, msg string) {
	if field, ok := f.Fields[name]; ok {
		field.Errors = append(field.Errors, msg)
		return
	}
	f.NonFieldErrors = append(f.NonFieldErrors, msg)
}

func (f *Form) HasErrors() bool {
	if len(f.NonFieldErrors) > 0 {
		return true
	}
	for _, field := range f.Fields {
		if field.HasErrors() {
			return true
		}
	}
	return false
}

func (f *Form) IsBound() bool {
	return f.bound
}

// IsValid is true for a bound form without errors. An unbound form is never
// valid.
func (f *Form) IsValid() bool {
	return f.bound && !f.HasErrors()
}

// bindRequest decodes the submitted form into obj and records every
// validation failure as a field error.
func (f *Form) bindRequest(req *http.Request, obj interface{}) {
	f.bound = true
	contentType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	err := binding.Default(req.Method, contentType).Bind(req, obj)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		f.NonFieldErrors = append(f.NonFieldErrors, MsgInvalidValue)
		return
	}
	for _, fe := range verrs {
		f.AddError(fe.Field(), messageOf(fe))
	}
}

func messageOf(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return MsgRequired
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "email":
		return MsgInvalidEmail
	case "eqfield":
		return MsgPasswordsDiffer
	case "username":
		return MsgInvalidUsername
	}
	return MsgInvalidValue
}
