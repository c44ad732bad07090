package render

import (
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// GridCenters returns the stamp centers of g on a width × height page,
// row by row from the bottom of the page, left to right within a row.
func GridCenters(g watermark.Grid, width, height float64) []Point {
	h, v := g.HorizontalBoxes, g.VerticalBoxes
	centers := make([]Point, 0, h*v)
	for j := 0; j < v; j++ {
		for i := 0; i < h; i++ {
			var p Point
			if g.Margin {
				p.X = float64(i+1) * width / float64(h+1)
				p.Y = float64(j+1) * height / float64(v+1)
			} else {
				p.X = (float64(i) + 0.5) * width / float64(h)
				p.Y = (float64(j) + 0.5) * height / float64(v)
			}
			centers = append(centers, p)
		}
	}
	return centers
}

// InsertCenter returns the center of a stamp stampWidth points wide placed
// by in on a width × height page.
func InsertCenter(in watermark.Insert, width, height, stampWidth float64) Point {
	p := Point{X: in.X * width, Y: in.Y * height}
	switch in.Alignment {
	case watermark.AlignLeft:
		p.X += stampWidth / 2
	case watermark.AlignRight:
		p.X -= stampWidth / 2
	}
	return p
}
