// Package hinton draws Hinton diagrams of the weights of a network, one GIF frame per epoch.
package hinton

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/gorgonia/noisynet"
)

var regular *truetype.Font

const (
	dpi        = 72.0
	fontsize   = 12.0
	lineheight = 1.2
	captions   = 2 // network name, epoch and error
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// positive weights are drawn black, negative ones grey
var globPalette = color.Palette{
	color.Gray{255},
	color.Gray{0},
	color.Gray{128},
}

// Encoder is an noisynet.OutputEncoder that draws the weights of one layer after every epoch.
type Encoder struct {
	// Layer is the index of the weight matrix to draw.
	Layer int
	// Cell is the side in pixels of the square of a single weight.
	Cell int
	// Delay between frames, in 100ths of a second.
	Delay int

	font.Drawer
	io.Writer

	out        *gif.GIF
	face       font.Face
	padH, padW int
}

// NewEncoder creates an Encoder of layer that writes the animation to w on Flush.
func NewEncoder(w io.Writer, layer, cell int) *Encoder {
	return &Encoder{
		Layer:  layer,
		Cell:   cell,
		Delay:  50,
		Writer: w,
		Drawer: font.Drawer{
			Src: image.Black,
		},
		out:  &gif.GIF{LoopCount: -1},
		padH: 10,
		padW: 10,
	}
}

// Encode draws a frame for s.
func (enc *Encoder) Encode(s noisynet.EpochState) error {
	ws := s.Net.Weights()
	if enc.Layer < 0 || enc.Layer >= len(ws) {
		return errors.Errorf("cannot draw layer %d of a network with %d layers", enc.Layer, len(ws))
	}
	if enc.face == nil {
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Face = enc.face
	}

	shape := ws[enc.Layer].Shape()
	rows, cols := shape[0], shape[1]
	data := ws[enc.Layer].Data().([]float64)
	caption := fmt.Sprintf("Epoch %d, error %.4f", s.Epoch, s.Error)

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	w := maxInt(cols*enc.Cell, font.MeasureString(enc.face, caption).Ceil()) + 2*enc.padW
	h := rows*enc.Cell + captions*dy + 2*enc.padH

	im := image.NewPaletted(image.Rect(0, 0, w, h), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	Draw(im, image.Pt(enc.padW, enc.padH), data, rows, cols, enc.Cell)

	enc.Dst = im
	y := enc.padH + rows*enc.Cell + dy
	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(s.Net.Name())
	y += dy
	enc.Dot = fixed.P(enc.padW, y)
	enc.DrawString(caption)

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("nothing to flush")
	}
	return gif.EncodeAll(enc.Writer, enc.out)
}

// Draw draws the Hinton diagram of the rows×cols matrix data onto im, with its top left corner at
// at. Every weight is a square centered in its cell whose area is proportional to its magnitude,
// black when positive and grey when negative.
func Draw(im *image.Paletted, at image.Point, data []float64, rows, cols, cell int) {
	var max float64
	for _, v := range data {
		max = math.Max(max, math.Abs(v))
	}
	if max == 0 {
		return
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := data[i*cols+j]
			side := int(math.Round(float64(cell) * math.Sqrt(math.Abs(v)/max)))
			if side == 0 {
				continue
			}
			off := (cell - side) / 2
			x0, y0 := at.X+j*cell+off, at.Y+i*cell+off
			idx := uint8(1)
			if v < 0 {
				idx = 2
			}
			r := image.Rect(x0, y0, x0+side, y0+side)
			draw.Draw(im, r, &image.Uniform{globPalette[idx]}, image.Point{}, draw.Src)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
