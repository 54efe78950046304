// Package pixel implements the 1-bit color model and the page-packed frame
// buffer used by SSD1xxx and SH1106 class OLED controllers.
//
// The types are compatible with Go's native [image/color.Color] and
// [image.Image] / [image/draw.Image] interfaces.
package pixel
