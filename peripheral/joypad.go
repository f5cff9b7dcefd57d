package peripheral

import (
	"fmt"

	"github.com/sarchlab/gbsim/emu"
)

// Button is a joypad button.
type Button uint8

// Buttons. The first four are direction keys, the rest action keys; within
// each group the order matches the P1 bit order.
const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

var buttonNames = [...]string{
	"right", "left", "up", "down", "a", "b", "select", "start",
}

// String returns the button name.
func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

const (
	selectDirections uint8 = 0x10
	selectActions    uint8 = 0x20
)

// Joypad implements the P1 register. Bits 4 and 5 select the direction and
// action groups (active low); the low nibble reports the pressed buttons of
// the selected groups (also active low).
type Joypad struct {
	bus     Bus
	pressed uint8 // bit n set when Button(n) is held
	sel     uint8
}

// NewJoypad creates a joypad and installs its P1 hook on the bus.
func NewJoypad(bus Bus) (*Joypad, error) {
	j := &Joypad{bus: bus, sel: selectDirections | selectActions}

	err := bus.MapIO(emu.AddrP1, &emu.IOHandler{
		Read:  func(uint16) uint8 { return j.State() },
		Write: func(_ uint16, v uint8) { j.sel = v & (selectDirections | selectActions) },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map P1: %w", err)
	}

	return j, nil
}

// State returns the value the CPU reads from P1.
func (j *Joypad) State() uint8 {
	return 0xC0 | j.sel | ^j.selectedMask()&0x0F
}

// selectedMask returns the low-nibble bits of the held buttons in the
// selected groups.
func (j *Joypad) selectedMask() uint8 {
	var mask uint8
	if j.sel&selectDirections == 0 {
		mask |= j.pressed & 0x0F
	}
	if j.sel&selectActions == 0 {
		mask |= j.pressed >> 4
	}
	return mask
}

// Press holds a button. A new press visible through the current selection
// requests the joypad interrupt.
func (j *Joypad) Press(b Button) {
	before := j.selectedMask()
	j.pressed |= 1 << b
	if j.selectedMask()&^before != 0 {
		requestInterrupt(j.bus, emu.IntJoypad)
	}
}

// Release lets go of a button.
func (j *Joypad) Release(b Button) {
	j.pressed &^= 1 << b
}

// Pressed reports whether a button is held.
func (j *Joypad) Pressed(b Button) bool {
	return j.pressed&(1<<b) != 0
}
