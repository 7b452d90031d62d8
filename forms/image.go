package forms

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// maxImagePixels rejects decompression bombs before decoding.
const maxImagePixels = 40_000_000

// ValidateImage decodes the whole payload and returns its format. Only real
// gif, jpeg, png, bmp or webp images pass.
func ValidateImage(r io.ReadSeeker) (string, bool) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return "", false
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false
	}
	if _, _, err = image.Decode(r); err != nil {
		return "", false
	}
	return format, true
}

// validateUploadedImage opens the uploaded file and checks it is an image.
func validateUploadedImage(fh *multipart.FileHeader) (string, bool) {
	f, err := fh.Open()
	if err != nil {
		return "", false
	}
	defer f.Close()
	return ValidateImage(f)
}
