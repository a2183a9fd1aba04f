// Package render paints game draw commands with ebiten.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/flaphand/internal/game"
)

// cameraAlpha keeps the pipes readable over the preview.
const cameraAlpha = 0.45

// Renderer owns the textures the draw commands refer to by name.
type Renderer struct {
	face *text.GoTextFaceSource

	birdSrc *image.RGBA
	bird    *ebiten.Image

	camera        *ebiten.Image
	cameraPending image.Image
	showCamera    bool

	unknown map[game.Sprite]bool
}

// New loads the font. Textures are created on the first Draw, once the
// graphics driver is up.
func New() (*Renderer, error) {
	face, err := text.NewGoTextFaceSource(bytes.NewReader(fonts.PressStart2P_ttf))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Renderer{
		face:       face,
		birdSrc:    birdImage(34, 24),
		showCamera: true,
		unknown:    make(map[game.Sprite]bool),
	}, nil
}

// SetCamera queues img as the next preview texture. nil hides the preview.
func (r *Renderer) SetCamera(img image.Image) {
	r.cameraPending = img
	if img == nil {
		r.camera = nil
	}
}

// ShowCamera toggles the preview without dropping the texture.
func (r *Renderer) ShowCamera(on bool) {
	r.showCamera = on
}

func (r *Renderer) CameraVisible() bool {
	return r.showCamera
}

// Draw executes cmds in order.
func (r *Renderer) Draw(screen *ebiten.Image, cmds []game.DrawCommand) {
	r.upload()

	for _, c := range cmds {
		switch c.Kind {
		case game.DrawFill:
			screen.Fill(c.Color)
		case game.DrawRect:
			vector.DrawFilledRect(screen, float32(c.Rect.X), float32(c.Rect.Y), float32(c.Rect.W), float32(c.Rect.H), c.Color, false)
		case game.DrawSprite:
			r.drawSprite(screen, c)
		case game.DrawText:
			r.drawText(screen, c)
		}
	}
}

func (r *Renderer) upload() {
	if r.bird == nil {
		r.bird = ebiten.NewImageFromImage(r.birdSrc)
	}
	if r.cameraPending == nil {
		return
	}

	img := r.cameraPending
	r.cameraPending = nil

	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && r.camera != nil && r.camera.Bounds().Size() == b.Size() {
		r.camera.WritePixels(rgba.Pix)
		return
	}
	r.camera = ebiten.NewImageFromImage(img)
}

func (r *Renderer) drawSprite(screen *ebiten.Image, c game.DrawCommand) {
	var img *ebiten.Image
	alpha := float32(1)

	switch c.Sprite {
	case game.SpriteBird:
		img = r.bird
	case game.SpriteCamera:
		if !r.showCamera {
			return
		}
		img = r.camera
		alpha = cameraAlpha
	default:
		if !r.unknown[c.Sprite] {
			log.Printf("render: unknown sprite %q", c.Sprite)
			r.unknown[c.Sprite] = true
		}
		return
	}
	if img == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	sx, sy, tx, ty := fit(img.Bounds().Size(), c.Rect)
	op.GeoM.Scale(sx, sy)
	op.GeoM.Translate(tx, ty)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (r *Renderer) drawText(screen *ebiten.Image, c game.DrawCommand) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(c.Rect.X, c.Rect.Y)
	op.ColorScale.ScaleWithColor(c.Color)
	if c.Align == game.AlignCenter {
		op.PrimaryAlign = text.AlignCenter
	}
	text.Draw(screen, c.Text, &text.GoTextFace{Source: r.face, Size: c.Size}, op)
}

// fit returns the scale and translation that stretch an image of size src
// over dst.
func fit(src image.Point, dst game.Rect) (sx, sy, tx, ty float64) {
	if src.X <= 0 || src.Y <= 0 {
		return 1, 1, dst.X, dst.Y
	}
	return dst.W / float64(src.X), dst.H / float64(src.Y), dst.X, dst.Y
}

var (
	birdBody = color.RGBA{R: 250, G: 210, B: 40, A: 255}
	birdWing = color.RGBA{R: 240, G: 150, B: 30, A: 255}
	birdEye  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	birdBeak = color.RGBA{R: 235, G: 90, B: 40, A: 255}
)

// birdImage draws the bird as an ellipse with an eye, a wing and a beak.
func birdImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := float64(w)/2-1, float64(h)/2-1

	inEllipse := func(x, y, ex, ey, erx, ery float64) bool {
		dx, dy := (x-ex)/erx, (y-ey)/ery
		return dx*dx+dy*dy <= 1
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			switch {
			case inEllipse(px, py, cx+rx*0.45, cy-ry*0.35, rx*0.12, ry*0.18):
				img.SetRGBA(x, y, birdEye)
			case px > cx+rx*0.7 && inEllipse(px, py, cx+rx*0.85, cy+ry*0.15, rx*0.3, ry*0.22):
				img.SetRGBA(x, y, birdBeak)
			case inEllipse(px, py, cx-rx*0.3, cy+ry*0.15, rx*0.35, ry*0.3):
				img.SetRGBA(x, y, birdWing)
			case inEllipse(px, py, cx, cy, rx, ry):
				img.SetRGBA(x, y, birdBody)
			}
		}
	}
	return img
}
