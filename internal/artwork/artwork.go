// Package artwork downloads an article image and stores it as square
// episode cover art. Apple clients render large square artwork most
// reliably.
package artwork

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	imageSize    = 1400
	jpegQuality  = 88
	fetchTimeout = 20 * time.Second

	browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

// Process downloads imageURL, center-crops it square, scales it to 1400px
// and writes it as a JPEG under dir. It returns the stored filename.
func Process(imageURL, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := download(imageURL)
	if err != nil {
		return "", err
	}

	square := squareCrop(src)
	dst := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), square, square.Bounds(), draw.Src, nil)

	filename := uuid.New().String() + ".jpg"
	out, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	log.Info().Str("file", filename).Int("size", imageSize).Msg("episode artwork saved")
	return filename, nil
}

func download(imageURL string) (image.Image, error) {
	client := &http.Client{Timeout: fetchTimeout}
	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	return img, err
}

func squareCrop(src image.Image) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if s, ok := src.(subImager); ok {
		return s.SubImage(image.Rect(x0, y0, x0+side, y0+side))
	}
	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Copy(cropped, image.Point{}, src, image.Rect(x0, y0, x0+side, y0+side), draw.Src, nil)
	return cropped
}
