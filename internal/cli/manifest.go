package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

var validate = newValidator()

// newValidator reports fields by their manifest (YAML) names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// readManifest decodes the YAML document at path ("-" reads stdin) into out.
// Unknown keys are rejected so typos do not silently drop fields.
func (rt *runtime) readManifest(path string, out any) error {
	if path == "" {
		return errors.New("a manifest is required; pass -f <file>")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(rt.reader())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return nil
}

// checkStruct runs the validator tags of v and reports every failing field
// by its YAML name.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), describeTag(fe)))
	}
	return fmt.Errorf("invalid manifest: %s", strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "datetime":
		return "must match " + fe.Param()
	case "hexcolor":
		return "must be a hex colour like #1e88e5"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}

// readUpload loads an optional file for a multipart part. An empty path
// means no file.
func readUpload(path string) (*apiclient.File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &apiclient.File{Name: filepath.Base(path), Data: data}, nil
}
