// Package bigchar renders kana as large block art using half-block characters,
// drawing each string with the face of the font it was assigned.
package bigchar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"strings"

	"github.com/f3rmion/typekana/internal/config"
	"github.com/f3rmion/typekana/internal/quiz"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Common install locations per font label. Configured paths are tried first.
var fontPaths = map[string][]string{
	quiz.FontSans: {
		// Linux
		"/usr/share/fonts/truetype/noto/NotoSansJP-Regular.ttf",
		"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
		"~/.local/share/fonts/NotoSansJP-Regular.ttf",
		// macOS
		"~/Library/Fonts/NotoSansJP-Regular.ttf",
		"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
		// Windows
		"C:\\Windows\\Fonts\\NotoSansJP-VF.ttf",
		"C:\\Windows\\Fonts\\YuGothR.ttc",
	},
	quiz.FontSerif: {
		// Linux
		"~/.local/share/fonts/HinaMincho-Regular.ttf",
		"/usr/share/fonts/truetype/hina-mincho/HinaMincho-Regular.ttf",
		"/usr/share/fonts/opentype/noto/NotoSerifCJK-Regular.ttc",
		"/usr/share/fonts/noto-cjk/NotoSerifCJK-Regular.ttc",
		// macOS
		"~/Library/Fonts/HinaMincho-Regular.ttf",
		"/System/Library/Fonts/ヒラギノ明朝 ProN.ttc",
		// Windows
		"C:\\Windows\\Fonts\\yumin.ttf",
		"C:\\Windows\\Fonts\\msmincho.ttc",
	},
}

const faceSize = 64

// Renderer draws kana with one face per font label.
type Renderer struct {
	faces map[string]font.Face
	cache map[string]string
}

// NewRenderer loads a face for every known font label. configured maps a
// label to a font file and takes precedence over the built-in locations.
// Labels with no loadable file are left out; Render then falls back to any
// loaded face.
func NewRenderer(configured map[string]string) *Renderer {
	r := &Renderer{
		faces: make(map[string]font.Face),
		cache: make(map[string]string),
	}

	for _, label := range quiz.Fonts {
		var paths []string
		if p := configured[label]; p != "" {
			paths = append(paths, p)
		}
		paths = append(paths, fontPaths[label]...)

		for _, path := range paths {
			face, err := loadFace(config.ExpandHome(path))
			if err != nil {
				continue
			}
			log.Printf("bigchar: %s loaded from %s", label, path)
			r.faces[label] = face
			break
		}
	}

	return r
}

// loadFace parses a font file or the first font of a collection.
func loadFace(path string) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := &opentype.FaceOptions{Size: faceSize, DPI: 72}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return opentype.NewFace(fnt, opts)
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return opentype.NewFace(fnt, opts)
}

// Available reports whether any face was loaded.
func (r *Renderer) Available() bool {
	return len(r.faces) > 0
}

// HasFace reports whether label has its own face.
func (r *Renderer) HasFace(label string) bool {
	_, ok := r.faces[label]
	return ok
}

func (r *Renderer) face(label string) font.Face {
	if f, ok := r.faces[label]; ok {
		return f
	}
	for _, l := range quiz.Fonts {
		if f, ok := r.faces[l]; ok {
			return f
		}
	}
	return nil
}

// Render draws text in the face for label, scaled into cols×rows terminal
// cells. It returns "" when no face is available.
func (r *Renderer) Render(label, text string, cols, rows int) string {
	if text == "" || cols <= 0 || rows <= 0 {
		return ""
	}

	key := fmt.Sprintf("%s\x00%s\x00%d\x00%d", label, text, cols, rows)
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	face := r.face(label)
	if face == nil {
		return ""
	}

	rendered := renderBlock(face, text, cols, rows)
	r.cache[key] = rendered
	return rendered
}

func renderBlock(face font.Face, text string, cols, rows int) string {
	bounds, _ := font.BoundString(face, text)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	srcWidth := max(glyphWidth+padding*2, faceSize)
	srcHeight := max(glyphHeight+padding*2, faceSize)

	srcImg := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(srcImg, srcImg.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth-glyphWidth)/2 - bounds.Min.X.Floor()
	y := srcHeight - padding - bounds.Max.Y.Ceil()

	d := &font.Drawer{
		Dst:  srcImg,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	// rows*2 because each cell holds two vertical pixels
	scaled := scaleDown(srcImg, cols, rows*2)

	return imageToHalfBlocks(scaled, cols, rows)
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}

			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

// threshold is the brightness above which a half-cell is drawn.
const threshold = 40

// imageToHalfBlocks converts a grayscale image to half-block art.
func imageToHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			topOn := brightness(img, col, row*2) > threshold
			bottomOn := brightness(img, col, row*2+1) > threshold

			switch {
			case topOn && bottomOn:
				b.WriteRune('█')
			case topOn:
				b.WriteRune('▀')
			case bottomOn:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}
