package codec

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// Error taxonomy of the watermarking pipeline. Callers classify with
// errors.Is and decide how to surface each class.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image decode failed")
	ErrEncode            = errors.New("image encode failed")
)

// Codec is the decode/encode strategy for one container format. Outputs are
// always re-encoded with the codec that decoded them, so the container format
// never changes across the pipeline. Implementations are stateless and safe
// for concurrent use.
type Codec interface {
	Name() string
	MIME() string
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

var byExtension = map[string]Codec{
	".jpg":  JPEG{},
	".jpeg": JPEG{},
	".png":  PNG{},
	".heic": HEIF{},
	".heif": HEIF{},
}

// ForFilename selects the codec for a filename by its extension,
// case-insensitive. Unknown extensions fail with ErrUnsupportedFormat.
func ForFilename(name string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(name))
	c, ok := byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}

// Supported reports whether the filename carries a supported extension.
// Upload intake checks this before anything is written to disk.
func Supported(name string) bool {
	_, ok := byExtension[strings.ToLower(filepath.Ext(name))]
	return ok
}
