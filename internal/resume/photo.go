package resume

import (
	"encoding/base64"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPhotoBytes 限制内嵌照片的原始大小。
const MaxPhotoBytes = 5 << 20

var photoTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// PhotoDataURI 识别图片类型并编码为 data URI，供 Record.Photo 使用。
func PhotoDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: photo is empty", ErrInvalidSnapshot)
	}
	if len(data) > MaxPhotoBytes {
		return "", fmt.Errorf("%w: photo is %d bytes, limit %d", ErrInvalidSnapshot, len(data), MaxPhotoBytes)
	}
	mt := mimetype.Detect(data)
	for _, allowed := range photoTypes {
		if mt.Is(allowed) {
			return "data:" + allowed + ";base64," + base64.StdEncoding.EncodeToString(data), nil
		}
	}
	return "", fmt.Errorf("%w: photo type %s is not an image", ErrInvalidSnapshot, mt.String())
}
