package export

import (
	"fmt"
	"strings"
)

// CurveToSVG renders a voltage-vs-time (or any 2D) curve as an SVG
// polyline with axis labels.
func CurveToSVG(xs, ys []float64, width, height int, strokeColor, xLabel, yLabel string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	const margin = 40.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555"/>
`, margin, float64(height)-margin, float64(width)-margin, float64(height)-margin))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555"/>
`, margin, margin, margin, float64(height)-margin))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#aaaaaa" font-size="12">%s</text>
`, float64(width)/2, float64(height)-10, xLabel))
	sb.WriteString(fmt.Sprintf(`<text x="12" y="%.1f" fill="#aaaaaa" font-size="12" transform="rotate(-90 12 %.1f)">%s</text>
`, float64(height)/2, float64(height)/2, yLabel))

	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, strokeColor))
	for i := range xs {
		px := margin + (xs[i]-minX)/spanX*plotW
		py := float64(height) - margin - (ys[i]-minY)/spanY*plotH
		sb.WriteString(fmt.Sprintf("%.1f,%.1f ", px, py))
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
