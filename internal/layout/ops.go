// Package layout computes absolute text, rule and image placements for a
// single fixed-size invoice page.
//
// The engine is deterministic and side-effect-free: it measures text
// through the narrow Metrics interface and emits placement operations,
// leaving actual drawing to the renderer. The vertical cursor is explicit
// state passed into and returned from each section step.
package layout

// Page geometry, A4 in PostScript points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

// FontStyle selects between the page's two font weights.
type FontStyle int

const (
	FontRegular FontStyle = iota
	FontBold
)

// Color selects between the page's two text colors.
type Color int

const (
	ColorBlack Color = iota
	ColorMuted
)

// Metrics measures rendered text width at a given font and size. The
// production implementation is backed by the PDF font engine; tests use a
// deterministic fake.
type Metrics interface {
	TextWidth(text string, style FontStyle, size float64) float64
}

// Text places one sanitized single-line string. Y is the text baseline
// measured from the top of the page.
type Text struct {
	X, Y  float64
	Value string
	Style FontStyle
	Size  float64
	Color Color
}

// Rule places one horizontal separator line.
type Rule struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

// ImageBox places the logo image, already scaled.
type ImageBox struct {
	X, Y          float64
	Width, Height float64
}

// Page is the composed set of placements for one invoice page.
type Page struct {
	Width, Height float64
	Logo          *ImageBox
	Rules         []Rule
	Texts         []Text
}
