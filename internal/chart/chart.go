// Package chart turns a weighted category list into pie slices and renders them as SVG.
package chart

import (
	"fmt"
	"html"
	"io"
	"math"

	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/palette"
)

// Slice is one wedge of the pie.
type Slice struct {
	Title   string  `json:"title"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
	Rank    int     `json:"rank"`
}

// Slices builds one slice per category in list order. Unset weights count as 0.
// Colours come from p, so a random palette yields new colours on every call.
func Slices(s budget.State, p palette.Palette) []Slice {
	total := 0.0
	for _, w := range s.Weights() {
		total += w
	}

	out := make([]Slice, 0, s.Len())
	for _, c := range s.Categories {
		sl := Slice{Title: c.Name, Rank: c.Rank, Color: p.Color(c.Name)}
		if c.Weight != nil {
			sl.Value = *c.Weight
		}
		if total > 0 {
			sl.Percent = sl.Value / total * 100
		}
		out = append(out, sl)
	}
	return out
}

// RenderSVG writes a square pie chart of the given pixel size. Each wedge's angle is
// proportional to its share of the total value.
func RenderSVG(w io.Writer, slices []Slice, size int) error {
	r := float64(size) / 2
	if _, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		size, size, size, size); err != nil {
		return err
	}

	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}

	if total > 0 {
		angle := -math.Pi / 2
		for _, s := range slices {
			if s.Value <= 0 {
				continue
			}
			sweep := s.Value / total * 2 * math.Pi
			if err := writeWedge(w, s, r, angle, sweep); err != nil {
				return err
			}
			angle += sweep
		}
	}

	_, err := io.WriteString(w, "</svg>")
	return err
}

func writeWedge(w io.Writer, s Slice, r, start, sweep float64) error {
	title := html.EscapeString(s.Title)
	color := s.Color
	if !palette.IsValidHex(color) {
		color = "#999999"
	}

	if sweep >= 2*math.Pi-1e-9 {
		_, err := fmt.Fprintf(w, `<circle cx="%.3f" cy="%.3f" r="%.3f" fill="%s"><title>%s</title></circle>`,
			r, r, r, color, title)
		return err
	}

	x1, y1 := r+r*math.Cos(start), r+r*math.Sin(start)
	end := start + sweep
	x2, y2 := r+r*math.Cos(end), r+r*math.Sin(end)
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	_, err := fmt.Fprintf(w,
		`<path d="M %.3f %.3f L %.3f %.3f A %.3f %.3f 0 %d 1 %.3f %.3f Z" fill="%s"><title>%s</title></path>`,
		r, r, x1, y1, r, r, large, x2, y2, color, title)
	return err
}
