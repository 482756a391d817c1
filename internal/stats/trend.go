package stats

import (
	"fmt"
	"math"
	"strings"
)

// Trend directions.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Sparkline summarizes a history series for display: an inline SVG plus
// the half-over-half trend.
type Sparkline struct {
	SVG          string `json:"svg"`
	Trend        string `json:"trend"`
	TrendPercent int    `json:"trend_percent"`
}

// Trend compares the second half of a series against the first.
// The percent is 0 when the first half averages zero.
func Trend(values []int64) (string, int) {
	if len(values) < 2 {
		return TrendFlat, 0
	}

	mid := len(values) / 2
	firstAvg := average(values[:mid])
	secondAvg := average(values[mid:])

	direction := TrendFlat
	if secondAvg > firstAvg {
		direction = TrendUp
	} else if secondAvg < firstAvg {
		direction = TrendDown
	}

	percent := 0
	if firstAvg > 0 {
		percent = int(math.Round((secondAvg - firstAvg) / firstAvg * 100))
	}
	return direction, percent
}

// RenderSparkline builds an inline polyline SVG over the series. Fewer
// than two points renders nothing.
func RenderSparkline(values []int64, width, height int, color string) Sparkline {
	direction, percent := Trend(values)
	spark := Sparkline{Trend: direction, TrendPercent: percent}
	if len(values) < 2 {
		return spark
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	span := float64(maxV - minV)
	if span == 0 {
		span = 1
	}

	var points []string
	for i, v := range values {
		x := float64(i) / float64(len(values)-1) * float64(width)
		y := float64(height) - float64(v-minV)/span*float64(height-4) - 2
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
	}

	spark.SVG = fmt.Sprintf(
		`<svg width="%d" height="%d" class="inline-block ml-2"><polyline fill="none" stroke="%s" stroke-width="1.5" points="%s" /></svg>`,
		width, height, color, strings.Join(points, " "))
	return spark
}

func average(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
