package ui

import (
	"fmt"
	"io"
	"strings"
)

const bannerRule = "================"

// FormatBanner frames a sub-phase title, e.g. "=== Creating Tables ===".
func FormatBanner(title string) string {
	return strings.Join([]string{bannerRule, title, bannerRule}, " ")
}

// NewBanner returns a function printing each sub-phase title to w,
// preceded by a blank line.
func NewBanner(w io.Writer) func(title string) {
	return func(title string) {
		fmt.Fprintf(w, "\n%s\n", BannerStyle.Render(FormatBanner(title)))
	}
}
