package view

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

// FormErrors maps a form field to its message. The key "general" holds
// errors not tied to one field.
type FormErrors map[string]string

// Validate runs validator struct tags on form and returns per-field messages.
func Validate(v *validator.Validate, form any) FormErrors {
	return collect(v.Struct(form))
}

// ValidateExcept is Validate skipping the named fields.
func ValidateExcept(v *validator.Validate, form any, fields ...string) FormErrors {
	return collect(v.StructExcept(form, fields...))
}

func collect(err error) FormErrors {
	errs := FormErrors{}
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["general"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "eqfield":
		return "Values do not match."
	case "hexcolor":
		return "Enter a colour like #22c55e."
	case "datetime":
		return "Enter a valid date and time."
	case "gt", "gte":
		return "Must be a positive number."
	default:
		return "Invalid value."
	}
}

// FormFile reads an optional uploaded file. A missing or empty part yields nil.
func FormFile(r *http.Request, field string, maxBytes int64) (*apiclient.File, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()
	return readUpload(file, header, maxBytes)
}

func readUpload(file multipart.File, header *multipart.FileHeader, maxBytes int64) (*apiclient.File, error) {
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, fmt.Errorf("%s exceeds the upload limit", header.Filename)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &apiclient.File{Name: header.Filename, Data: data}, nil
}

// ErrNotImage rejects uploads whose content is not an image.
var ErrNotImage = errors.New("the uploaded file is not an image")

// FormImage is FormFile restricted to image content.
func FormImage(r *http.Request, field string, maxBytes int64) (*apiclient.File, error) {
	file, err := FormFile(r, field, maxBytes)
	if err != nil || file == nil {
		return file, err
	}
	if !strings.HasPrefix(file.ContentType(), "image/") {
		return nil, ErrNotImage
	}
	return file, nil
}

// IDParam reads a positive numeric route parameter.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
