package port

import (
	"context"
	"io"
)

// UploadInput describes a rendered report to host.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	// DownloadName, when set, is offered to browsers as the saved file name.
	DownloadName string
}

// UploadOutput locates a hosted report.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage hosts invalid id reports and hands out time-limited
// download links for them.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
