package ticket

import (
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCodeFound means the uploaded image contained no readable code at
// all. The scanner UI shows this differently from a validator rejection:
// the operator should re-take the photo, not turn the attendee away.
var ErrNoCodeFound = errors.New("no code found in image")

// ===========================
// 📷 Static image decode
//
// DecodeImage extracts the raw candidate string from one uploaded image.
// It never interprets the contents - that is the validator's job. Live
// camera scanning happens client-side and hands its decoded string to the
// redeem endpoint directly.
func DecodeImage(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", ErrNoCodeFound
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrNoCodeFound
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoCodeFound
	}

	return result.GetText(), nil
}
