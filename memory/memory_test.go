package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstruct(t *testing.T) {
	r, err := NewRAM(128)
	assert.NoError(t, err)
	assert.Equal(t, 128*PageSize, r.Len())
	assert.Equal(t, 128, r.Pages())

	// Freshly constructed segments are zeroed.
	v, err := r.Peek(0x3FFF)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), v)

	_, err = NewRAM(MaxPages + 1)
	assert.Error(t, err)
	_, err = NewROM(-1)
	assert.Error(t, err)
}

func TestRAMLoadClamps(t *testing.T) {
	r, err := NewRAM(1)
	assert.NoError(t, err)

	big := make([]byte, 2*PageSize)
	for i := range big {
		big[i] = uint8(i)
	}
	r.Load(big) // silently clamps at capacity

	v, err := r.Peek(PageSize - 1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(PageSize-1), v)
	_, err = r.Peek(PageSize)
	assert.ErrorIs(t, err, OutOfRange{PageSize})
}

func TestROMLoadRejectsOversize(t *testing.T) {
	r, err := NewROM(1)
	assert.NoError(t, err)

	err = r.Load(make([]byte, PageSize+1))
	assert.ErrorIs(t, err, OutOfRange{PageSize})

	assert.NoError(t, r.Load([]byte{0xDE, 0xAD}))
	v, err := r.Read(1)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xAD), v)
}

func TestPageOffsetAccess(t *testing.T) {
	r, err := NewRAM(4)
	assert.NoError(t, err)

	r.WritePageOffset(2, 0x10, 0x42)
	assert.Equal(t, uint8(0x42), r.ReadPageOffset(2, 0x10))

	// The flat index view sees the same byte.
	v, err := r.Peek(2*PageSize + 0x10)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x42), v)
}

func TestWriteChecked(t *testing.T) {
	r, err := NewRAM(1)
	assert.NoError(t, err)

	assert.NoError(t, r.Write(0xFF, 0x99))
	assert.ErrorIs(t, r.Write(0x100, 0x99), OutOfRange{0x100})
	assert.ErrorIs(t, r.Write(-1, 0x99), OutOfRange{-1})
}

func TestContents(t *testing.T) {
	r, err := NewRAM(2)
	assert.NoError(t, err)
	r.WritePageOffset(0, 0x00, 0x11)
	r.WritePageOffset(1, 0xFF, 0x22)

	c := r.Contents()
	assert.Len(t, c, 2*PageSize)
	assert.Equal(t, uint8(0x11), c[0])
	assert.Equal(t, uint8(0x22), c[2*PageSize-1])

	// Contents is a copy, not a view.
	c[0] = 0xFF
	assert.Equal(t, uint8(0x11), r.ReadPageOffset(0, 0x00))
}
