// Package functionality does basic end-end verification of the
// emulator with real ROM images: build an image, boot the machine,
// run until BRK and inspect the RAM that would be dumped.
package functionality

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"github.com/JForte05/Steel6502/bus"
	"github.com/JForte05/Steel6502/cpu"
)

// image builds a 32 KiB ROM image with program placed at CPU address
// origin and the reset vector pointing at it.
func image(origin uint16, program []byte) []byte {
	img := make([]byte, bus.ROMSize)
	copy(img[origin-0x8000:], program)
	img[cpu.RESET_VECTOR-0x8000] = uint8(origin & 0xFF)
	img[cpu.RESET_VECTOR-0x8000+1] = uint8(origin >> 8)
	return img
}

// run boots the image and steps until BRK, returning the machine for
// inspection.
func run(t *testing.T, img []byte) *bus.Machine {
	t.Helper()
	machine, err := bus.New(img)
	if err != nil {
		t.Fatalf("building machine: %v", err)
	}
	chip := cpu.Init(nil)
	if err := chip.Reset(machine); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for i := 0; ; i++ {
		if i > 100000 {
			t.Fatal("program did not reach BRK")
		}
		mnemonic, err := chip.Step(machine)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if mnemonic == cpu.BRK {
			return machine
		}
	}
}

func TestMultiplyByRepeatedAdd(t *testing.T) {
	// Computes 10 * 3 into zero page 0x02 by repeated addition.
	program := []byte{
		0xA2, 0x0A, // LDX #10
		0x86, 0x00, // STX 0x00
		0xA2, 0x03, // LDX #3
		0x86, 0x01, // STX 0x01
		0xA4, 0x00, // LDY 0x00
		0xA9, 0x00, // LDA #0
		0x18, // CLC
		0x65, 0x01, // ADC 0x01
		0x88,       // DEY
		0xD0, 0xFB, // BNE back to the ADC
		0x85, 0x02, // STA 0x02
		0x00, // BRK
	}
	machine := run(t, image(0x8000, program))

	contents := machine.RAMContents()
	if len(contents) != bus.RAMSize {
		t.Fatalf("dump size: got %d want %d", len(contents), bus.RAMSize)
	}
	if diff := deep.Equal(contents[0:3], []byte{0x0A, 0x03, 0x1E}); diff != nil {
		t.Errorf("result bytes differ: %v", diff)
	}
}

func TestCMOSInstructions(t *testing.T) {
	// Exercises the 65C02 additions end to end: TSB, STZ, SMB, BRA.
	program := []byte{
		0xA9, 0xF0, // LDA #F0
		0x0C, 0x10, 0x00, // TSB 0x0010
		0x64, 0x11, // STZ 0x11
		0x87, 0x12, // SMB0 0x12
		0x80, 0x02, // BRA past the dead NOPs
		0xEA, 0xEA, // never executed
		0x00, // BRK
	}
	machine := run(t, image(0x8000, program))

	contents := machine.RAMContents()
	if diff := deep.Equal(contents[0x10:0x13], []byte{0xF0, 0x00, 0x01}); diff != nil {
		t.Errorf("result bytes differ: %v", diff)
	}
}

func TestSubroutineCall(t *testing.T) {
	// JSR into a subroutine that stores a marker, then RTS back to
	// the instruction after the call.
	program := []byte{
		0xA2, 0xFF, // LDX #FF
		0x9A,             // TXS
		0x20, 0x10, 0x80, // JSR 0x8010
		0x85, 0x21, // STA 0x21 (runs after RTS)
		0x00, // BRK
	}
	sub := []byte{
		0xA9, 0x5A, // LDA #5A
		0x85, 0x20, // STA 0x20
		0x60, // RTS
	}
	img := image(0x8000, program)
	copy(img[0x0010:], sub)
	machine := run(t, img)

	contents := machine.RAMContents()
	if diff := deep.Equal(contents[0x20:0x22], []byte{0x5A, 0x5A}); diff != nil {
		t.Errorf("result bytes differ: %v", diff)
	}
}

func TestROMWriteFaults(t *testing.T) {
	program := []byte{
		0xA9, 0x01, // LDA #1
		0x8D, 0x00, 0x90, // STA 0x9000 (ROM)
		0x00,
	}
	machine, err := bus.New(image(0x8000, program))
	if err != nil {
		t.Fatalf("building machine: %v", err)
	}
	chip := cpu.Init(nil)
	if err := chip.Reset(machine); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := chip.Step(machine); err != nil {
		t.Fatalf("LDA: %v", err)
	}
	_, err = chip.Step(machine)
	var want bus.UnsupportedOperation
	if !errors.As(err, &want) {
		t.Fatalf("got %v want UnsupportedOperation", err)
	}
	if want.Addr != 0x9000 {
		t.Errorf("fault address: got 0x%.4X want 0x9000", want.Addr)
	}
}
