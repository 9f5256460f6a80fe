package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JForte05/Steel6502/memory"
)

func TestDefaultMapCoversAddressSpace(t *testing.T) {
	m, err := New(nil)
	assert.NoError(t, err)

	// Every page of the 64K space must decode somewhere.
	for page := 0; page < 256; page++ {
		_, err := m.Read(uint16(page) << 8)
		assert.NoError(t, err, "page 0x%.2X", page)
	}
}

func TestROMImageMapping(t *testing.T) {
	img := make([]byte, ROMSize)
	img[0] = 0xEA
	img[ROMSize-4] = 0x34 // image offset 0x7FFC -> CPU 0xFFFC
	img[ROMSize-3] = 0x12

	m, err := New(img)
	assert.NoError(t, err)

	v, err := m.Read(0x8000)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xEA), v)

	v, err = m.Read(0xFFFC)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x34), v)
	v, err = m.Read(0xFFFD)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x12), v)
}

func TestOversizeImageRejected(t *testing.T) {
	_, err := New(make([]byte, ROMSize+1))
	assert.Error(t, err)
}

func TestRAMReadWrite(t *testing.T) {
	m, err := New(nil)
	assert.NoError(t, err)

	assert.NoError(t, m.Write(0x1234, 0x56))
	v, err := m.Read(0x1234)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x56), v)
}

func TestROMWriteRejected(t *testing.T) {
	m, err := New(nil)
	assert.NoError(t, err)

	err = m.Write(0x8000, 0x01)
	assert.ErrorIs(t, err, UnsupportedOperation{Addr: 0x8000, Op: OpWrite})
	err = m.Write(0xFFFF, 0x01)
	assert.ErrorIs(t, err, UnsupportedOperation{Addr: 0xFFFF, Op: OpWrite})
}

func TestUnmappedPage(t *testing.T) {
	// The default machine maps everything; build a crippled map to
	// exercise the unmapped path a future device page would hit.
	ram, err := memory.NewRAM(1)
	assert.NoError(t, err)
	m := &Machine{ram: ram}
	m.pages[0x00] = pageMapping{kind: mapRAM, page: 0}

	_, err = m.Read(0x0100)
	assert.ErrorIs(t, err, UnmappedAddress{Addr: 0x0100})
	err = m.Write(0x0100, 0x00)
	assert.ErrorIs(t, err, UnmappedAddress{Addr: 0x0100})

	// The mapped page still works.
	assert.NoError(t, m.Write(0x0042, 0x99))
	v, err := m.Read(0x0042)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x99), v)
}

func TestRAMContents(t *testing.T) {
	m, err := New(nil)
	assert.NoError(t, err)

	assert.NoError(t, m.Write(0x0000, 0xAA))
	assert.NoError(t, m.Write(0x7FFF, 0xBB))

	c := m.RAMContents()
	assert.Len(t, c, RAMSize)
	assert.Equal(t, uint8(0xAA), c[0])
	assert.Equal(t, uint8(0xBB), c[RAMSize-1])
}
