package file_store

import (
	"io"

	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/pkg/errors"
)

// Shared Func type for file stores
type CustomizeFileNameFuncType func(string) string
type CustomizeUploadedUrlType func(string) string

var ErrUnsupportedMediaType = errors.New("unsupported media content type")

// MediaFileStore persists uploaded media bytes and hands back a stable key
// the rest of the system can turn into a public url.
type MediaFileStore interface {
	Store(body io.Reader, fileName string) (key string, err error)
	GetUrlFromKey(key string) string
	CleanUp()
}

// DetectMediaKind maps an upload's content type to the media kind the
// publishers understand. Anything outside the allow list is rejected.
func DetectMediaKind(contentType string) (model.MediaKind, error) {
	switch contentType {
	case "image/jpeg", "image/png":
		return model.MediaKindImage, nil
	case "video/mp4", "video/quicktime":
		return model.MediaKindVideo, nil
	default:
		return "", errors.Wrap(ErrUnsupportedMediaType, contentType)
	}
}
