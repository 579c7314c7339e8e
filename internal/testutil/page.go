// Package testutil generates synthetic electoral-roll page images for
// tests: white pages with solid voter boxes laid out on a grid, labeled
// fields drawn in a bitmap font, and an optional gray watermark band.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rollscan/rollscan/internal/utils"
)

// Voter holds the field values rendered into one synthetic box.
type Voter struct {
	Serial   int
	EPIC     string
	Name     string
	Relation string // e.g. "Father's Name : Ram Kumar"
	HouseNo  string
	Age      int
	Gender   string
}

// PageConfig describes a synthetic roll page.
type PageConfig struct {
	Width, Height int
	Columns       int
	BoxWidth      int
	BoxHeight     int
	Margin        int
	Gap           int
	Watermark     bool
	// WatermarkGray is the watermark fill intensity (mid-gray).
	WatermarkGray uint8
}

// DefaultPageConfig returns a three-column page sized for fast tests.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Width:         1200,
		Height:        900,
		Columns:       3,
		BoxWidth:      360,
		BoxHeight:     180,
		Margin:        20,
		Gap:           16,
		Watermark:     false,
		WatermarkGray: 160,
	}
}

// GeneratePage renders the voters into boxes in reading order and
// returns the page image with the box rectangles actually drawn.
func GeneratePage(cfg PageConfig, voters []Voter) (*image.RGBA, []utils.Box) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	var rects []utils.Box
	for i, v := range voters {
		col := i % cfg.Columns
		row := i / cfg.Columns
		x := cfg.Margin + col*(cfg.BoxWidth+cfg.Gap)
		y := cfg.Margin + row*(cfg.BoxHeight+cfg.Gap)
		if y+cfg.BoxHeight > cfg.Height {
			break
		}
		rect := utils.Box{X: x, Y: y, W: cfg.BoxWidth, H: cfg.BoxHeight}
		drawVoterBox(img, rect, v, cfg)
		rects = append(rects, rect)
	}
	return img, rects
}

// drawVoterBox fills the box solid black so binarization recovers it as
// one connected component, then paints a white interior with the voter
// text. A 4px border survives the median filter.
func drawVoterBox(img *image.RGBA, rect utils.Box, v Voter, cfg PageConfig) {
	outer := rect.ToRect(img.Bounds())
	draw.Draw(img, outer, image.Black, image.Point{}, draw.Src)

	inner := outer.Inset(4)
	draw.Draw(img, inner, image.White, image.Point{}, draw.Src)

	if cfg.Watermark {
		g := cfg.WatermarkGray
		wm := image.NewUniform(color.RGBA{R: g, G: g, B: g, A: 0xff})
		// Diagonal stripe through the middle of the box.
		for i := 0; i < inner.Dx(); i += 3 {
			x := inner.Min.X + i
			y := inner.Min.Y + (i*inner.Dy())/inner.Dx()
			draw.Draw(img, image.Rect(x, y, x+2, y+8), wm, image.Point{}, draw.Src)
		}
	}

	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil() + 4
	x := inner.Min.X + 6
	y := inner.Min.Y + lineH

	drawString(img, face, fmt.Sprintf("%d   %s", v.Serial, v.EPIC), x, y)
	drawString(img, face, "Name : "+v.Name, x, y+2*lineH)
	drawString(img, face, v.Relation, x, y+3*lineH)
	drawString(img, face, "House Number : "+v.HouseNo, x, y+4*lineH)
	drawString(img, face, fmt.Sprintf("Age : %d Gender : %s", v.Age, v.Gender), x, y+5*lineH)
}

func drawString(img *image.RGBA, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// SampleVoters returns n distinct synthetic voters.
func SampleVoters(n int) []Voter {
	names := []string{"Ram Kumar", "Sita Devi", "Mohan Das", "Gita Bai", "Shyam Lal", "Radha Devi"}
	voters := make([]Voter, n)
	for i := range voters {
		gender := "Male"
		relation := fmt.Sprintf("Father's Name : %s", names[(i+1)%len(names)])
		if i%2 == 1 {
			gender = "Female"
			relation = fmt.Sprintf("Husband's Name : %s", names[(i+1)%len(names)])
		}
		voters[i] = Voter{
			Serial:   i + 1,
			EPIC:     fmt.Sprintf("ABC%07d", 1000000+i),
			Name:     names[i%len(names)],
			Relation: relation,
			HouseNo:  fmt.Sprintf("%d-A", i+1),
			Age:      25 + i,
			Gender:   gender,
		}
	}
	return voters
}
