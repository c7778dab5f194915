package ppu

import (
	"encoding/binary"
	"image/color"
	"io"
)

// defaultPalette is the 64-entry NES master palette, converted from an FCEUX
// .pal file; SetPalette below lets a host swap in a different capture.
var defaultPalette = [64]uint32{
	0x747474, 0x24188c, 0x0000a8, 0x44009c, 0x8c0074, 0xa80010, 0xa40000, 0x7c0800,
	0x402c00, 0x004400, 0x005000, 0x003c14, 0x183c5c, 0x000000, 0x000000, 0x000000,
	0xbcbcbc, 0x0070ec, 0x2038ec, 0x8000f0, 0xbc00bc, 0xe40058, 0xd82800, 0xc84c0c,
	0x887000, 0x009400, 0x00a800, 0x009038, 0x008088, 0x000000, 0x000000, 0x000000,
	0xfcfcfc, 0x3cbcfc, 0x5c94fc, 0xcc88fc, 0xf478fc, 0xfc74b4, 0xfc7460, 0xfc9838,
	0xf0bc3c, 0x80d010, 0x4cdc48, 0x58f898, 0x00e8d8, 0x787878, 0x000000, 0x000000,
	0xfcfcfc, 0xa8e4fc, 0xc4d4fc, 0xd4c8fc, 0xfcc4fc, 0xfcc4d8, 0xfcbcb0, 0xfcd8a8,
	0xfce4a0, 0xe0fca0, 0xa8f0bc, 0xb0fccc, 0x9cfcf0, 0xc4c4c4, 0x000000, 0x000000,
}

func buildDefaultPalette() [64]color.RGBA {
	var pal [64]color.RGBA
	for i, c := range defaultPalette {
		pal[i] = color.RGBA{R: byte(c >> 16), G: byte(c >> 8), B: byte(c), A: 0xFF}
	}
	return pal
}

// SetPalette replaces the master palette from a raw 64*3-byte RGB triplet
// stream, the same on-disk shape as a FCEUX/Nestopia .pal file.
func (p *PPU) SetPalette(r io.Reader) error {
	var raw [64][3]uint8
	if err := binary.Read(r, binary.BigEndian, &raw); err != nil {
		return err
	}
	for i, c := range raw {
		p.masterPalette[i] = color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF}
	}
	return nil
}
