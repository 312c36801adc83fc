package web

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
)

const (
	datetimeLocalLayout = "2006-01-02T15:04"
	nonFieldErrors      = "__all__"
)

var pubDateLayouts = []string{
	datetimeLocalLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type postForm struct {
	Title       string `form:"title" validate:"required,max=256"`
	Text        string `form:"text" validate:"required"`
	PubDateText string `form:"pub_date" validate:"required"`
	IsPublished bool   `form:"is_published"`
	CategoryID  int    `form:"category" validate:"gte=0"`
	LocationID  int    `form:"location" validate:"gte=0"`
	ClearImage  bool   `form:"image_clear"`
}

func newPostForm(now time.Time) *postForm {
	return &postForm{
		PubDateText: now.Format(datetimeLocalLayout),
		IsPublished: true,
	}
}

func postFormFrom(p *blog.Post) *postForm {
	form := &postForm{}
	if err := copier.Copy(form, p); err != nil {
		return form
	}

	form.PubDateText = p.PubDate.Format(datetimeLocalLayout)
	if p.Category != nil {
		form.CategoryID = p.Category.ID
	}
	if p.Location != nil {
		form.LocationID = p.Location.ID
	}
	return form
}

// input converts a validated form; an unparseable publication date is reported per field.
func (f *postForm) input() (blog.PostInput, map[string]string) {
	var in blog.PostInput
	if err := copier.Copy(&in, f); err != nil {
		return in, map[string]string{nonFieldErrors: err.Error()}
	}

	pubDate, err := parsePubDate(f.PubDateText)
	if err != nil {
		return in, map[string]string{"pub_date": "Enter a valid date/time."}
	}
	in.PubDate = pubDate

	return in, nil
}

func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

type commentForm struct {
	Text string `form:"text" validate:"required"`
}

type profileForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
}

type registrationForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password  string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// formValidator is the echo.Validator behind c.Validate.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &formValidator{v: v}
}

func (fv *formValidator) Validate(i interface{}) error {
	return fv.v.Struct(i)
}

// fieldErrors turns validator errors into one message per form field.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{nonFieldErrors: err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}
