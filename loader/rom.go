// Package loader provides Game Boy cartridge and boot ROM loading.
package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Cartridge header layout.
const (
	EntryPoint = 0x0100

	titleStart           = 0x0134
	titleEnd             = 0x0144
	cgbFlagOffset        = 0x0143
	cartridgeTypeOffset  = 0x0147
	romSizeOffset        = 0x0148
	ramSizeOffset        = 0x0149
	headerChecksumOffset = 0x014D
	globalChecksumOffset = 0x014E

	// HeaderEnd is the first byte past the cartridge header.
	HeaderEnd = 0x0150
)

// MaxROMSize is the largest cartridge image the bus can map without a
// memory bank controller.
const MaxROMSize = 0x8000

// BootROMSize is the size of the DMG boot ROM.
const BootROMSize = 0x100

var (
	// ErrTruncatedHeader is returned for images too short to hold a header.
	ErrTruncatedHeader = errors.New("cartridge image shorter than its header")

	// ErrUnsupportedCartridge is returned for cartridges that need a memory
	// bank controller or exceed 32 KB.
	ErrUnsupportedCartridge = errors.New("unsupported cartridge")

	// ErrBadBootROMSize is returned for boot ROM images that are not 256
	// bytes long.
	ErrBadBootROMSize = errors.New("boot rom must be 256 bytes")
)

// CartridgeType is the cartridge hardware code at 0x0147.
type CartridgeType uint8

// Cartridge types that need no memory bank controller.
const (
	CartridgeROMOnly       CartridgeType = 0x00
	CartridgeROMRAM        CartridgeType = 0x08
	CartridgeROMRAMBattery CartridgeType = 0x09
)

var cartridgeTypeNames = map[CartridgeType]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0B: "MMM01",
	0x0C: "MMM01+RAM",
	0x0D: "MMM01+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
	0x1C: "MBC5+RUMBLE",
	0x1D: "MBC5+RUMBLE+RAM",
	0x1E: "MBC5+RUMBLE+RAM+BATTERY",
}

// String returns the name used in cartridge documentation.
func (t CartridgeType) String() string {
	if name, ok := cartridgeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02X)", uint8(t))
}

// NeedsMBC reports whether the cartridge relies on a memory bank controller.
func (t CartridgeType) NeedsMBC() bool {
	switch t {
	case CartridgeROMOnly, CartridgeROMRAM, CartridgeROMRAMBattery:
		return false
	default:
		return true
	}
}

// Header holds the decoded cartridge header.
type Header struct {
	// Title is the upper-case game title, trailing padding removed.
	Title string
	// CGBFlag is the Color Game Boy support byte.
	CGBFlag uint8
	// Type is the cartridge hardware.
	Type CartridgeType
	// ROMSizeCode is the raw ROM size byte.
	ROMSizeCode uint8
	// RAMSizeCode is the raw external RAM size byte.
	RAMSizeCode uint8
	// HeaderChecksum is the stored checksum over 0x0134-0x014C.
	HeaderChecksum uint8
	// GlobalChecksum is the stored big-endian sum of all other bytes.
	GlobalChecksum uint16
}

// ROMSize returns the ROM size declared by the header, or 0 for codes
// outside the documented range.
func (h *Header) ROMSize() int {
	if h.ROMSizeCode > 0x08 {
		return 0
	}
	return MaxROMSize << h.ROMSizeCode
}

// RAMSize returns the external RAM size declared by the header.
func (h *Header) RAMSize() int {
	switch h.RAMSizeCode {
	case 0x02:
		return 8 << 10
	case 0x03:
		return 32 << 10
	case 0x04:
		return 128 << 10
	case 0x05:
		return 64 << 10
	default:
		return 0
	}
}

// ParseHeader decodes the header of a cartridge image.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < HeaderEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(rom))
	}

	title := rom[titleStart:titleEnd]
	if rom[cgbFlagOffset]&0x80 != 0 {
		title = title[:cgbFlagOffset-titleStart]
	}

	return &Header{
		Title:          strings.TrimRight(string(title), "\x00 "),
		CGBFlag:        rom[cgbFlagOffset],
		Type:           CartridgeType(rom[cartridgeTypeOffset]),
		ROMSizeCode:    rom[romSizeOffset],
		RAMSizeCode:    rom[ramSizeOffset],
		HeaderChecksum: rom[headerChecksumOffset],
		GlobalChecksum: uint16(rom[globalChecksumOffset])<<8 | uint16(rom[globalChecksumOffset+1]),
	}, nil
}

// HeaderChecksum computes the header checksum the boot ROM verifies. The
// image must be at least HeaderEnd bytes long.
func HeaderChecksum(rom []byte) uint8 {
	var x uint8
	for _, b := range rom[titleStart:headerChecksumOffset] {
		x = x - b - 1
	}
	return x
}

// GlobalChecksum computes the sum of every byte except the two checksum
// bytes themselves.
func GlobalChecksum(rom []byte) uint16 {
	var sum uint16
	for i, b := range rom {
		if i == globalChecksumOffset || i == globalChecksumOffset+1 {
			continue
		}
		sum += uint16(b)
	}
	return sum
}

// Cartridge is a validated cartridge image.
type Cartridge struct {
	Header Header
	ROM    []byte

	// HeaderChecksumOK is false when the stored header checksum does not
	// match; the real boot ROM locks up on such cartridges.
	HeaderChecksumOK bool

	// GlobalChecksumOK is informational; hardware never checks it.
	GlobalChecksumOK bool
}

// ParseCartridge validates a cartridge image. Only cartridges without a
// memory bank controller and at most 32 KB long are accepted.
func ParseCartridge(data []byte) (*Cartridge, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if header.Type.NeedsMBC() {
		return nil, fmt.Errorf("%w: cartridge type %s", ErrUnsupportedCartridge, header.Type)
	}
	if len(data) > MaxROMSize || header.ROMSizeCode != 0 {
		return nil, fmt.Errorf("%w: %d bytes, header declares %d",
			ErrUnsupportedCartridge, len(data), header.ROMSize())
	}

	return &Cartridge{
		Header:           *header,
		ROM:              data,
		HeaderChecksumOK: HeaderChecksum(data) == header.HeaderChecksum,
		GlobalChecksumOK: GlobalChecksum(data) == header.GlobalChecksum,
	}, nil
}

// LoadCartridge reads and validates a cartridge file.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartridge: %w", err)
	}

	cart, err := ParseCartridge(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cart, nil
}

// LoadBootROM reads a boot ROM file.
func LoadBootROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boot rom: %w", err)
	}

	if len(data) != BootROMSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrBadBootROMSize, path, len(data))
	}

	return data, nil
}
