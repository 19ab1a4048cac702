package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

func init() {
	// Report fields by their form names, e.g. "video_link".
	validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	_ = validatorInstance.RegisterValidation("technology", func(fl validator.FieldLevel) bool {
		return Technology(fl.Field().String()).Valid()
	})
}

// ProjectInput is the editable part of a project as submitted by the admin forms.
// The form tags match the field names the portfolio API expects.
type ProjectInput struct {
	Title         string `form:"title" validate:"required,max=200"`
	Technology    string `form:"technology" validate:"required,technology"`
	Description   string `form:"description" validate:"required"`
	Features      string `form:"features"`
	VideoLink     string `form:"video_link" validate:"omitempty,url"`
	GithubLink    string `form:"github_link" validate:"omitempty,url"`
	PlaystoreLink string `form:"playstore_link" validate:"omitempty,url"`
	AppstoreLink  string `form:"appstore_link" validate:"omitempty,url"`
}

// Normalize trims surrounding whitespace from every field.
func (in *ProjectInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Technology = strings.TrimSpace(in.Technology)
	in.Description = strings.TrimSpace(in.Description)
	in.Features = strings.TrimSpace(in.Features)
	in.VideoLink = strings.TrimSpace(in.VideoLink)
	in.GithubLink = strings.TrimSpace(in.GithubLink)
	in.PlaystoreLink = strings.TrimSpace(in.PlaystoreLink)
	in.AppstoreLink = strings.TrimSpace(in.AppstoreLink)
}

// Validate runs the struct tags and returns a single readable error.
func (in *ProjectInput) Validate() error {
	err := validatorInstance.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Fields returns the input as ordered multipart field pairs.
func (in *ProjectInput) Fields() [][2]string {
	return [][2]string{
		{"title", in.Title},
		{"technology", in.Technology},
		{"description", in.Description},
		{"features", in.Features},
		{"video_link", in.VideoLink},
		{"github_link", in.GithubLink},
		{"playstore_link", in.PlaystoreLink},
		{"appstore_link", in.AppstoreLink},
	}
}

// InputFromProject pre-fills the edit form.
func InputFromProject(p *Project) ProjectInput {
	return ProjectInput{
		Title:         p.Title,
		Technology:    string(p.Technology),
		Description:   p.Description,
		Features:      p.Features,
		VideoLink:     p.VideoLink,
		GithubLink:    p.GithubLink,
		PlaystoreLink: p.PlaystoreLink,
		AppstoreLink:  p.AppstoreLink,
	}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "technology":
		return fmt.Sprintf("%s must be one of react-native, flutter, java, kotlin", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
