package file_store

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/Luismorlan/yatube/app_setting"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PostImageDir is where post images live inside any store.
const PostImageDir = "posts"

// FileStore keeps uploaded media. Keys are slash separated and relative, they
// are what models persist.
type FileStore interface {
	// Store saves an image of the given format, e.g. "png".
	Store(ctx context.Context, format string, r io.Reader) (key string, err error)
	GetUrlFromKey(key string) string
	Delete(ctx context.Context, key string) error
}

// imageExtensions maps decoded image formats to the extension media is
// served with. Anything else is stored without an extension.
var imageExtensions = map[string]string{
	"gif":  ".gif",
	"jpeg": ".jpg",
	"png":  ".png",
	"bmp":  ".bmp",
	"webp": ".webp",
}

// GenerateKey returns a fresh key for an uploaded image of format, as
// reported by image.DecodeConfig. The client provided file name is never
// trusted.
func GenerateKey(format string) string {
	return path.Join(PostImageDir, uuid.New().String()+imageExtensions[strings.ToLower(format)])
}

// NewFromSetting builds the store selected by FILE_STORE.
func NewFromSetting(setting app_setting.YatubeAppSetting) (FileStore, error) {
	switch setting.FILE_STORE {
	case app_setting.FileStoreLocal:
		return NewLocalFileStore(setting.MEDIA_ROOT, setting.MEDIA_URL)
	case app_setting.FileStoreS3:
		return NewS3FileStore(setting.S3_BUCKET, setting.S3_REGION, setting.S3_URL_PREFIX)
	}
	return nil, errors.Errorf("unknown file store %s", setting.FILE_STORE)
}

func withTrailingSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
