package video

import "image/color"

// rgb builds an opaque color.RGBA from a 0x00RRGGBB literal.
func rgb(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}
}

// colorPalette is the 16-entry NTSC artifact-color table: black, magenta,
// dark blue, purple, dark green, gray1, medium blue, light blue, brown,
// orange, gray2, pink, green, yellow, aqua, white.
var colorPalette = [16]color.RGBA{
	rgb(0x000000), rgb(0xDD0033), rgb(0x000099), rgb(0xDD22DD),
	rgb(0x007722), rgb(0x555555), rgb(0x2222FF), rgb(0x66AAFF),
	rgb(0x885500), rgb(0xFF6600), rgb(0xAAAAAA), rgb(0xFF9988),
	rgb(0x11DD00), rgb(0xFFFF00), rgb(0x44FF99), rgb(0xFFFFFF),
}

// monoPalette is the green-phosphor approximation used in MONO mode.
var monoPalette = [16]color.RGBA{
	rgb(0x000000), rgb(0x0E470E), rgb(0x041204), rgb(0x166E16),
	rgb(0x0F4A0F), rgb(0x115411), rgb(0x0C3B0C), rgb(0x1F9E1F),
	rgb(0x125C12), rgb(0x1B8A1B), rgb(0x22AB22), rgb(0x24B524),
	rgb(0x1A871A), rgb(0x2DE32D), rgb(0x25BD25), rgb(0xFFFFFF),
}

// textLineAddress gives, for each of the 24 text rows, the offset from the
// hi-res page base to the first byte of that row's top scanline. Scanlines
// within the 8-line band follow at +0x400 increments.
var textLineAddress = [24]uint16{
	0x0000, 0x0080, 0x0100, 0x0180, 0x0200, 0x0280, 0x0300, 0x0380,
	0x0028, 0x00A8, 0x0128, 0x01A8, 0x0228, 0x02A8, 0x0328, 0x03A8,
	0x0050, 0x00D0, 0x0150, 0x01D0, 0x0250, 0x02D0, 0x0350, 0x03D0,
}
