package emu

import (
	"fmt"
)

// Well-known addresses on the LR35902 bus.
const (
	AddrP1             uint16 = 0xFF00
	AddrSB             uint16 = 0xFF01
	AddrSC             uint16 = 0xFF02
	AddrDIV            uint16 = 0xFF04
	AddrTIMA           uint16 = 0xFF05
	AddrTMA            uint16 = 0xFF06
	AddrTAC            uint16 = 0xFF07
	AddrIF             uint16 = 0xFF0F
	AddrBootROMDisable uint16 = 0xFF50
	AddrIE             uint16 = 0xFFFF
)

// Interrupt request bits of IF and IE.
const (
	IntVBlank uint8 = 1 << iota
	IntLCDStat
	IntTimer
	IntSerial
	IntJoypad
)

// Region sizes.
const (
	BootROMSize = 0x100
	ROMSize     = 0x8000
	VRAMSize    = 0x2000
	ExtRAMSize  = 0x2000
	WRAMSize    = 0x2000
	OAMSize     = 0xA0
	IOSize      = 0x80
	HRAMSize    = 0x7F
)

// UnusableValue is returned for reads from 0xFEA0-0xFEFF.
const UnusableValue uint8 = 0xFF

// RegionKind identifies a storage region of the address map.
type RegionKind uint8

// Region kinds, in address order.
const (
	RegionBootROM RegionKind = iota
	RegionROM0
	RegionROMN
	RegionVRAM
	RegionExtRAM
	RegionWRAM
	RegionEcho
	RegionOAM
	RegionUnusable
	RegionIO
	RegionHRAM
	RegionIE
)

var regionNames = [...]string{
	RegionBootROM:  "boot-rom",
	RegionROM0:     "rom0",
	RegionROMN:     "romN",
	RegionVRAM:     "vram",
	RegionExtRAM:   "ext-ram",
	RegionWRAM:     "wram",
	RegionEcho:     "echo",
	RegionOAM:      "oam",
	RegionUnusable: "unusable",
	RegionIO:       "io",
	RegionHRAM:     "hram",
	RegionIE:       "ie",
}

// String returns the region name.
func (k RegionKind) String() string {
	if int(k) < len(regionNames) {
		return regionNames[k]
	}
	return fmt.Sprintf("region(%d)", uint8(k))
}

// Region describes one entry of the address map.
type Region struct {
	Kind     RegionKind
	Start    uint16
	End      uint16
	Writable bool
}

// Regions is the address map. The boot ROM entry overlaps ROM bank 0 and
// only applies while the overlay is active.
var Regions = []Region{
	{RegionBootROM, 0x0000, 0x00FF, false},
	{RegionROM0, 0x0000, 0x3FFF, false},
	{RegionROMN, 0x4000, 0x7FFF, false},
	{RegionVRAM, 0x8000, 0x9FFF, true},
	{RegionExtRAM, 0xA000, 0xBFFF, true},
	{RegionWRAM, 0xC000, 0xDFFF, true},
	{RegionEcho, 0xE000, 0xFDFF, true},
	{RegionOAM, 0xFE00, 0xFE9F, true},
	{RegionUnusable, 0xFEA0, 0xFEFF, false},
	{RegionIO, 0xFF00, 0xFF7F, true},
	{RegionHRAM, 0xFF80, 0xFFFE, true},
	{RegionIE, 0xFFFF, 0xFFFF, true},
}

// IOHandler intercepts CPU accesses to one I/O register. A nil Read falls
// back to the stored byte; a nil Write stores the byte unchanged.
type IOHandler struct {
	Read  func(addr uint16) uint8
	Write func(addr uint16, value uint8)
}

// Bus is the LR35902 memory bus and address decoder.
type Bus struct {
	bootROM [BootROMSize]byte
	rom     [ROMSize]byte
	vram    [VRAMSize]byte
	extRAM  [ExtRAMSize]byte
	wram    [WRAMSize]byte
	oam     [OAMSize]byte
	io      [IOSize]byte
	hram    [HRAMSize]byte
	ie      uint8

	hooks [IOSize]*IOHandler

	bootROMActive   bool
	bootROMDisabled bool
	onBootDisable   func()
}

// NewMemory creates an empty bus with no boot ROM overlay.
func NewMemory() *Bus {
	return &Bus{}
}

// LoadROM copies a cartridge image into ROM banks 0 and 1. Bytes past the
// end of the image read as 0xFF.
func (b *Bus) LoadROM(data []byte) error {
	if len(data) > ROMSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrROMTooLarge, len(data), ROMSize)
	}
	n := copy(b.rom[:], data)
	for i := n; i < ROMSize; i++ {
		b.rom[i] = 0xFF
	}
	return nil
}

// LoadBootROM copies a boot ROM image and activates the overlay.
func (b *Bus) LoadBootROM(data []byte) error {
	switch {
	case len(data) == 0:
		return ErrEmptyBootROM
	case len(data) > BootROMSize:
		return fmt.Errorf("%w: %d bytes, limit %d",
			ErrBootROMTooLarge, len(data), BootROMSize)
	case b.bootROMDisabled:
		return ErrBootROMDisabled
	}

	b.bootROM = [BootROMSize]byte{}
	copy(b.bootROM[:], data)
	b.bootROMActive = true
	return nil
}

// OnBootROMDisable registers a callback run once when the overlay is
// switched off.
func (b *Bus) OnBootROMDisable(fn func()) {
	b.onBootDisable = fn
}

// BootROMActive reports whether the boot ROM currently shadows 0x0000-0x00FF.
func (b *Bus) BootROMActive() bool {
	return b.bootROMActive
}

// MapIO installs a handler for one address in 0xFF00-0xFF7F. A later call
// for the same address replaces the handler; a nil handler removes it.
func (b *Bus) MapIO(addr uint16, h *IOHandler) error {
	if addr < 0xFF00 || addr > 0xFF7F {
		return fmt.Errorf("%w: 0x%04X", ErrNotIOAddress, addr)
	}
	b.hooks[addr-0xFF00] = h
	return nil
}

// IO returns the stored byte of an I/O register without invoking hooks.
func (b *Bus) IO(addr uint16) uint8 {
	if addr == AddrIE {
		return b.ie
	}
	return b.io[(addr-0xFF00)&(IOSize-1)]
}

// SetIO stores an I/O register byte without invoking hooks.
func (b *Bus) SetIO(addr uint16, value uint8) {
	if addr == AddrIE {
		b.ie = value
		return
	}
	b.io[(addr-0xFF00)&(IOSize-1)] = value
}

// Decode maps an address to its effective region and offset within that
// region's storage. Echo RAM decodes to the Work RAM cell it mirrors.
func (b *Bus) Decode(addr uint16) (RegionKind, uint16) {
	switch {
	case addr < 0x0100 && b.bootROMActive:
		return RegionBootROM, addr
	case addr < 0x4000:
		return RegionROM0, addr
	case addr < 0x8000:
		return RegionROMN, addr - 0x4000
	case addr < 0xA000:
		return RegionVRAM, addr - 0x8000
	case addr < 0xC000:
		return RegionExtRAM, addr - 0xA000
	case addr < 0xE000:
		return RegionWRAM, addr - 0xC000
	case addr < 0xFE00:
		return RegionWRAM, addr - 0xE000
	case addr < 0xFEA0:
		return RegionOAM, addr - 0xFE00
	case addr < 0xFF00:
		return RegionUnusable, addr - 0xFEA0
	case addr < 0xFF80:
		return RegionIO, addr - 0xFF00
	case addr < 0xFFFF:
		return RegionHRAM, addr - 0xFF80
	default:
		return RegionIE, 0
	}
}

// Read8 reads a byte.
func (b *Bus) Read8(addr uint16) uint8 {
	kind, off := b.Decode(addr)
	switch kind {
	case RegionBootROM:
		return b.bootROM[off]
	case RegionROM0:
		return b.rom[off]
	case RegionROMN:
		return b.rom[0x4000+off]
	case RegionVRAM:
		return b.vram[off]
	case RegionExtRAM:
		return b.extRAM[off]
	case RegionWRAM:
		return b.wram[off]
	case RegionOAM:
		return b.oam[off]
	case RegionIO:
		if h := b.hooks[off]; h != nil && h.Read != nil {
			return h.Read(addr)
		}
		return b.io[off]
	case RegionHRAM:
		return b.hram[off]
	case RegionIE:
		return b.ie
	default:
		return UnusableValue
	}
}

// Write8 writes a byte. Writes to ROM and to the unusable region are
// dropped.
func (b *Bus) Write8(addr uint16, value uint8) {
	kind, off := b.Decode(addr)
	switch kind {
	case RegionVRAM:
		b.vram[off] = value
	case RegionExtRAM:
		b.extRAM[off] = value
	case RegionWRAM:
		b.wram[off] = value
	case RegionOAM:
		b.oam[off] = value
	case RegionIO:
		if addr == AddrBootROMDisable {
			b.disableBootROM()
		}
		if h := b.hooks[off]; h != nil && h.Write != nil {
			h.Write(addr, value)
			return
		}
		b.io[off] = value
	case RegionHRAM:
		b.hram[off] = value
	case RegionIE:
		b.ie = value
	}
}

func (b *Bus) disableBootROM() {
	if b.bootROMDisabled {
		return
	}
	b.bootROMDisabled = true
	b.bootROMActive = false
	if b.onBootDisable != nil {
		b.onBootDisable()
	}
}

// Read16 reads a little-endian 16-bit value: low byte at addr, high byte at
// addr+1.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes a little-endian 16-bit value.
func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

// RegionData returns the backing storage of a region for peripherals that
// read memory directly (e.g. a renderer reading VRAM and OAM). Echo and
// unusable regions have no storage of their own and return nil; IE is
// returned as a one-byte copy.
func (b *Bus) RegionData(kind RegionKind) []byte {
	switch kind {
	case RegionBootROM:
		return b.bootROM[:]
	case RegionROM0:
		return b.rom[:0x4000]
	case RegionROMN:
		return b.rom[0x4000:]
	case RegionVRAM:
		return b.vram[:]
	case RegionExtRAM:
		return b.extRAM[:]
	case RegionWRAM:
		return b.wram[:]
	case RegionOAM:
		return b.oam[:]
	case RegionIO:
		return b.io[:]
	case RegionHRAM:
		return b.hram[:]
	case RegionIE:
		return []byte{b.ie}
	default:
		return nil
	}
}
