// ABOUTME: Display formatting for weights, volumes and durations.
// ABOUTME: Uses x/text message printers for locale-aware digit grouping.
package rpt

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatWeight renders a weight with its unit. Whole numbers drop the decimal.
func FormatWeight(weight float64, unit string) string {
	if weight == math.Trunc(weight) {
		return printer.Sprintf("%d %s", int64(weight), unit)
	}
	return printer.Sprintf("%.1f %s", weight, unit)
}

// FormatVolume renders a training volume, abbreviating above 1000 ("1.2k lb").
func FormatVolume(volume float64, unit string) string {
	if volume > 1000 {
		return fmt.Sprintf("%.1fk %s", volume/1000, unit)
	}
	return FormatWeight(volume, unit)
}

// FormatVolumeLong renders a volume with digit grouping ("12,345 lb").
func FormatVolumeLong(volume float64, unit string) string {
	return printer.Sprintf("%d %s", int64(math.Round(volume)), unit)
}

// FormatDuration renders a duration as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
