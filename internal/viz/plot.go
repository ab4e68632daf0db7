package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// Series renders one variable against sample index as a terminal plot.
func Series(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

var overlayColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Blue,
}

// Overlay renders several series in one plot with a colored legend,
// used for sweeps and model comparisons.
func Overlay(series [][]float64, labels []string, caption string) string {
	if len(series) == 0 {
		return ""
	}

	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		colors[i] = overlayColors[i%len(overlayColors)]
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)

	var legend strings.Builder
	for i, label := range labels {
		if i > 0 {
			legend.WriteString("   ")
		}
		legend.WriteString(fmt.Sprintf("%s %s", legendMarker(colors[i%len(colors)]), label))
	}

	return graph + "\n\n" + legend.String()
}

func legendMarker(c asciigraph.AnsiColor) string {
	return fmt.Sprintf("\x1b[38;5;%dm──\x1b[0m", int(c))
}
