package viz

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
)

const (
	dotW, dotH   = 3, 3
	gifFrameStep = 2
)

// Recorder collects rasterized frames for a GIF.
type Recorder struct {
	frames []*image.Paletted
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture paints every lit sub-pixel of rs as a dotW x dotH block.
func (r *Recorder) Capture(rs *Raster) {
	img := image.NewPaletted(image.Rect(0, 0, rs.PixelWidth()*dotW, rs.PixelHeight()*dotH), palette.WebSafe)
	bg := uint8(img.Palette.Index(rs.bg.ToRGBA()))
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	for y := 0; y < rs.PixelHeight(); y++ {
		for x := 0; x < rs.PixelWidth(); x++ {
			if !rs.Lit(x, y) {
				continue
			}
			var c color.Color = rs.Colors[y/4][x/2].ToRGBA()
			idx := uint8(img.Palette.Index(c))
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the collected frames as a looping GIF and clears them.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifFrameStep)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = r.frames[:0]
	return nil
}
