package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"regexp"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbSize bounds both thumbnail dimensions.
const ThumbSize = 400

// ErrNoEncoder is returned for formats that can be read but not written.
var ErrNoEncoder = errors.New("no encoder for image format")

var extension = regexp.MustCompile(`(\.[\w-]+)$`)

// ThumbURL derives the thumbnail address of an image by inserting "_thumb"
// before its extension. Addresses without an extension are returned as is.
func ThumbURL(url string) string {
	return extension.ReplaceAllString(url, "_thumb$1")
}

// Thumbnail scales the image in data to fit inside a bound×bound box, keeping
// its aspect ratio and format. Smaller images are re-encoded at their size.
func Thumbnail(data []byte, bound int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), bound)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoEncoder, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), nil
}

func fit(w, h, bound int) (int, int) {
	if w <= bound && h <= bound {
		return w, h
	}
	if w >= h {
		return bound, scaled(h, bound, w)
	}
	return scaled(w, bound, h), bound
}

func scaled(side, target, long int) int {
	n := (side*target + long/2) / long
	if n < 1 {
		return 1
	}
	return n
}
