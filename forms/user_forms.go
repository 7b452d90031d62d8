package forms

import (
	"net/http"
	"strings"
)

type signupInput struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"omitempty,email"`
	Password1 string `form:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// SignupData is the cleaned data of a valid SignupForm.
type SignupData struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

type SignupForm struct {
	Form
	SignupData
}

func NewSignupForm() *SignupForm {
	f := &SignupForm{}
	f.addField(&Field{Name: "first_name", Kind: CharField, Label: "First name"})
	f.addField(&Field{Name: "last_name", Kind: CharField, Label: "Last name"})
	f.addField(&Field{Name: "username", Kind: CharField, Label: "Username", Required: true,
		HelpText: "Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only."})
	f.addField(&Field{Name: "email", Kind: EmailField, Label: "Email address"})
	f.addField(&Field{Name: "password1", Kind: PasswordField, Label: "Password", Required: true,
		HelpText: "Your password must contain at least 8 characters."})
	f.addField(&Field{Name: "password2", Kind: PasswordField, Label: "Password confirmation", Required: true,
		HelpText: "Enter the same password as before, for verification."})
	return f
}

func (f *SignupForm) Bind(req *http.Request) {
	var input signupInput
	f.bindRequest(req, &input)
	f.SignupData = SignupData{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Username:  input.Username,
		Email:     strings.TrimSpace(input.Email),
		Password:  input.Password1,
	}
	// passwords are never echoed back
	f.Fields["first_name"].Value = input.FirstName
	f.Fields["last_name"].Value = input.LastName
	f.Fields["username"].Value = input.Username
	f.Fields["email"].Value = input.Email
}

type loginInput struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type LoginForm struct {
	Form
	Username string
	Password string
}

func NewLoginForm() *LoginForm {
	f := &LoginForm{}
	f.addField(&Field{Name: "username", Kind: CharField, Label: "Username", Required: true})
	f.addField(&Field{Name: "password", Kind: PasswordField, Label: "Password", Required: true})
	return f
}

func (f *LoginForm) Bind(req *http.Request) {
	var input loginInput
	f.bindRequest(req, &input)
	f.Username = input.Username
	f.Password = input.Password
	f.Fields["username"].Value = input.Username
}
