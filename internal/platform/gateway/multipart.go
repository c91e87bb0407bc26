package gateway

import (
	"bytes"
	"mime/multipart"
)

// FilePart is one attached file in a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartForm accumulates fields and files in insertion order.
type MultipartForm struct {
	fields [][2]string
	files  []FilePart
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

func (f *MultipartForm) AddField(name, value string) *MultipartForm {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *MultipartForm) AddFile(field, filename string, content []byte) *MultipartForm {
	f.files = append(f.files, FilePart{Field: field, Filename: filename, Content: content})
	return f
}

// Encode renders the form body and returns it with its boundary content type.
func (f *MultipartForm) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
