// Package mappers implements the cartridge board variants dispatched by
// cartridge.New. Each variant satisfies cartridge.Mapper; none of them hold
// a reference back to the bus, only to their own bank-index state and the
// plain PRG/CHR/PRGRAM slices handed to them at construction.
package mappers

import (
	"fmt"

	"github.com/embervale/nescore/cartridge"
)

// New dispatches on the iNES mapper number (and, where two boards share a
// number, the NES 2.0 submapper) to build the concrete cartridge.Mapper.
// It matches cartridge.MapperFactory structurally; cartridge.New is passed
// this function without either package importing the other's dispatch
// logic.
func New(mapperNum, submapper uint16, mem *cartridge.Memory) (cartridge.Mapper, error) {
	switch mapperNum {
	case 0:
		return newNROM(mem), nil
	case 1:
		return newMMC1(mem), nil
	case 2:
		return newUxROM(mem), nil
	case 3:
		return newCNROM(mem), nil
	case 4:
		return newMMC3(mem), nil
	case 5:
		return newMMC5(mem), nil
	case 7:
		return newAxROM(mem), nil
	case 9:
		return newMMC2(mem), nil
	case 10:
		return newMMC4(mem), nil
	case 11:
		return newColorDreams(mem), nil
	case 16, 153, 159:
		return newBandaiFCG(mem, mapperNum), nil
	case 19:
		return newNamco163(mem), nil
	case 21, 22, 23, 25:
		return newVRC24(mem, mapperNum, submapper), nil
	case 24:
		return newVRC6(mem, false), nil
	case 26:
		return newVRC6(mem, true), nil
	case 34:
		if submapper == 1 || (submapper == 0 && len(mem.CHR) > 8192) {
			return newNINA001(mem), nil
		}
		return newBNROM(mem), nil
	case 66:
		return newGxROM(mem), nil
	case 69:
		return newFME7(mem), nil
	case 71:
		return newCodemasters(mem), nil
	case 85:
		return newVRC7(mem), nil
	case 88, 95, 154, 206:
		return newNamco108(mem, mapperNum), nil
	case 140:
		return newJaleco(mem), nil
	case 175, 340:
		return newNamco175(mem), nil
	default:
		return nil, fmt.Errorf("%w: iNES mapper %d", cartridge.ErrUnsupportedMapper, mapperNum)
	}
}
