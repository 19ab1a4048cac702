package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/nfrund/folio/internal/domain"
)

// imagesField is the multipart field the API reads uploaded images from.
const imagesField = "images"

// Upload is one image to send along with a project form.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// ProjectForm is the multipart payload of a create or update call.
type ProjectForm struct {
	Input  domain.ProjectInput
	Images []Upload
}

func (f *ProjectForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.Input.Fields() {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}
	for _, img := range f.Images {
		if err := writeUpload(w, img); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeUpload(w *multipart.Writer, img Upload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		imagesField, quoteEscaper.Replace(img.Filename)))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	src, err := img.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", img.Filename, err)
	}
	defer src.Close()
	_, err = io.Copy(part, src)
	return err
}
