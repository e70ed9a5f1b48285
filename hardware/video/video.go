// Package video implements the TK2000's Apple-II-compatible hi-res
// rasterizer: the page-select and color/mono softswitches, the NTSC
// artifact-color lookup, and the scan-converted RGB framebuffer the host
// displays.
package video

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/tk2emu/tk2000/hardware/bus"
	"github.com/tk2emu/tk2000/logger"
)

const (
	bytesPerScanline = 40
	scanlinesPerBand = 8
	bands            = 24
	columnsPerByte   = 7

	nativeWidth  = bytesPerScanline * columnsPerByte // 280
	nativeHeight = bands * scanlinesPerBand          // 192

	// FBWidth and FBHeight are the dimensions of the displayed framebuffer:
	// the native 280x192 hi-res image scaled 2x both ways (artifact
	// resolution horizontally, scanline doubling vertically).
	FBWidth  = nativeWidth * 2
	FBHeight = nativeHeight * 2

	page1Base uint16 = 0x2000
	page2Base uint16 = 0xA000
)

// Video is the hi-res rasterizer, attached to 0xC050, 0xC051, 0xC054 and
// 0xC055.
type Video struct {
	b *bus.Bus

	colorMode bool
	pageBase  uint16

	line    scanline
	native  *image.RGBA
	fb      *image.RGBA
	damaged bool
}

// New returns a Video wired to read scanline bytes through b. Power-on
// state is MONO, page 1, matching Reset.
func New(b *bus.Bus) *Video {
	v := &Video{
		b:        b,
		pageBase: page1Base,
		native:   image.NewRGBA(image.Rect(0, 0, nativeWidth, nativeHeight)),
		fb:       image.NewRGBA(image.Rect(0, 0, FBWidth, FBHeight)),
	}
	return v
}

// Reset restores power-on softswitch state: MONO mode, page 1.
func (v *Video) Reset() {
	v.colorMode = false
	v.pageBase = page1Base
}

// SetColorMode selects COLOR (true) or MONO (false) rendering, the same
// effect as accessing the 0xC050/0xC051 softswitches.
func (v *Video) SetColorMode(color bool) {
	v.colorMode = color
}

// Read implements bus.Device. All four softswitches return 0xFF.
func (v *Video) Read(addr uint16) (uint8, error) {
	return v.access(addr)
}

// Write implements bus.Device; writes have the same effect as reads.
func (v *Video) Write(addr uint16, value uint8) error {
	_, err := v.access(addr)
	return err
}

func (v *Video) access(addr uint16) (uint8, error) {
	switch addr {
	case 0xC050:
		v.colorMode = true
	case 0xC051:
		v.colorMode = false
	case 0xC054:
		v.pageBase = page1Base
	case 0xC055:
		v.pageBase = page2Base
	default:
		logger.Logf("video", "unknown softswitch access %#04x", addr)
	}
	return 0xFF, nil
}

// Damaged reports whether the framebuffer has changed since the last
// ClearDamaged call.
func (v *Video) Damaged() bool {
	return v.damaged
}

// ClearDamaged resets the damaged signal.
func (v *Video) ClearDamaged() {
	v.damaged = false
}

// Framebuffer returns the current 560x384 RGB framebuffer. The returned
// image is owned by Video and must not be mutated by the caller.
func (v *Video) Framebuffer() *image.RGBA {
	return v.fb
}

// Refresh re-rasterizes the currently selected hi-res page and scales it
// up into the displayed framebuffer. It is intended to be called by a
// periodic host task at roughly 10Hz.
func (v *Video) Refresh() {
	v.rasterize()
	draw.NearestNeighbor.Scale(v.fb, v.fb.Bounds(), v.native, v.native.Bounds(), draw.Src, nil)
	v.damaged = true
}

func (v *Video) rasterize() {
	pal := &monoPalette
	if v.colorMode {
		pal = &colorPalette
	}

	for row := 0; row < bands; row++ {
		rowBase := v.pageBase + textLineAddress[row]
		for scan := 0; scan < scanlinesPerBand; scan++ {
			lineBase := rowBase + uint16(scan)*0x0400
			y := row*scanlinesPerBand + scan

			v.line.reset()
			for col := 0; col < bytesPerScanline; col++ {
				v.line.load(col, v.b.Read(lineBase+uint16(col)))
			}

			for x := 0; x < nativeWidth; x++ {
				var idx uint8
				if v.colorMode {
					idx = v.line.colorAt(x)
				} else {
					idx = v.line.monoAt(x)
				}
				v.native.SetRGBA(x, y, pal[idx])
			}
		}
	}
}
