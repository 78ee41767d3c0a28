package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is an upload carried in a multipart part.
type File struct {
	Name string
	Data []byte
}

// Empty reports whether f carries no content.
func (f *File) Empty() bool {
	return f == nil || len(f.Data) == 0
}

// ContentType sniffs the media type from the file content.
func (f *File) ContentType() string {
	if f.Empty() {
		return "application/octet-stream"
	}
	return mimetype.Detect(f.Data).String()
}

// MultipartForm accumulates parts for a multipart/form-data request. The
// first write error is kept and returned by Encode.
type MultipartForm struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

// NewMultipartForm starts an empty form.
func NewMultipartForm() *MultipartForm {
	f := &MultipartForm{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// Field writes a text part.
func (f *MultipartForm) Field(name, value string) *MultipartForm {
	if f.err != nil {
		return f
	}
	f.err = f.writer.WriteField(name, value)
	return f
}

// OptionalField writes a text part only when value is not blank.
func (f *MultipartForm) OptionalField(name, value string) *MultipartForm {
	if strings.TrimSpace(value) == "" {
		return f
	}
	return f.Field(name, value)
}

// JSON writes v as a part with Content-Type application/json.
func (f *MultipartForm) JSON(name string, v any) *MultipartForm {
	if f.err != nil {
		return f
	}
	payload, err := json.Marshal(v)
	if err != nil {
		f.err = fmt.Errorf("apiclient: encode part %s: %w", name, err)
		return f
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, name))
	header.Set("Content-Type", "application/json")
	part, err := f.writer.CreatePart(header)
	if err != nil {
		f.err = err
		return f
	}
	_, f.err = part.Write(payload)
	return f
}

// File writes a file part. Nil or empty files are skipped.
func (f *MultipartForm) File(name string, file *File) *MultipartForm {
	if f.err != nil || file.Empty() {
		return f
	}
	filename := filepath.Base(file.Name)
	if filename == "" || filename == "." || filename == "/" {
		filename = name + mimetype.Detect(file.Data).Extension()
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, filename))
	header.Set("Content-Type", file.ContentType())
	part, err := f.writer.CreatePart(header)
	if err != nil {
		f.err = err
		return f
	}
	_, f.err = part.Write(file.Data)
	return f
}

// Encode closes the form and returns the body and its content type.
func (f *MultipartForm) Encode() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, "", err
	}
	return f.buf.Bytes(), f.writer.FormDataContentType(), nil
}
