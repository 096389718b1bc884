package service

import (
	"context"
	"io"
	"net/url"

	inkwell "github.com/inkwell-cms/go-inkwell"
)

// Uploads wraps the media library endpoints.
type Uploads struct {
	client *inkwell.Client
}

func NewUploads(client *inkwell.Client) *Uploads {
	return &Uploads{client: client}
}

func (s *Uploads) Upload(ctx context.Context, filename string, content io.Reader) (*UploadedFile, error) {
	file := &UploadedFile{}
	upload := inkwell.MultipartUpload{
		FieldName: "file",
		FileName:  filename,
		Content:   content,
	}
	if err := s.client.PostMultipart(ctx, "/upload", upload, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *Uploads) List(ctx context.Context) ([]UploadedFile, error) {
	var files []UploadedFile
	if err := s.client.Get(ctx, "/upload/list", &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Uploads) Delete(ctx context.Context, filename string) error {
	query := url.Values{}
	query.Set("filename", filename)
	return s.client.Delete(ctx, "/upload/delete?"+query.Encode(), nil)
}

func (s *Uploads) Rename(ctx context.Context, oldName, newName string) (*UploadedFile, error) {
	file := &UploadedFile{}
	payload := map[string]string{"oldName": oldName, "newName": newName}
	if err := s.client.Post(ctx, "/upload/rename", payload, file); err != nil {
		return nil, err
	}
	return file, nil
}
