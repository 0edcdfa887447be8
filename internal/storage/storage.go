package storage

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the export
// archive needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, contentType string, data []byte) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
