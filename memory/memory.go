// Package memory implements the paged memory segments backing a
// W65C02S machine. A segment is an ordered run of 256 byte pages and
// comes in two variants: RAM (read/write) and ROM (readable only,
// filled once at construction via Load).
package memory

import "fmt"

// PageSize is the size of a single memory page. The high byte of a
// 16 bit address selects the page, the low byte the offset within it.
const PageSize = 256

// MaxPages caps a segment at a full 16 bit address space. A 65xx bus
// can never address more than 256 pages so larger segments are a
// construction error rather than silently aliased.
const MaxPages = 256

// OutOfRange is returned on any checked access beyond a segment's
// capacity.
type OutOfRange struct {
	Index int
}

// Error implements the interface for error types.
func (e OutOfRange) Error() string {
	return fmt.Sprintf("memory index %d out of range", e.Index)
}

type page [PageSize]uint8

// segment holds the page vector shared by both variants. All
// allocation happens here, at construction. The unchecked accessors
// are the bus fast path; Peek/Read are the checked external API.
type segment struct {
	pages []page
}

func newSegment(numPages int) (segment, error) {
	if numPages < 0 || numPages > MaxPages {
		return segment{}, OutOfRange{numPages * PageSize}
	}
	return segment{pages: make([]page, numPages)}, nil
}

// idxSplit decomposes a flat segment index into (page, offset).
func idxSplit(idx int) (int, uint8) {
	return idx >> 8, uint8(idx & 0xFF)
}

func (s *segment) checkIdx(idx int) (int, uint8, error) {
	pg, offset := idxSplit(idx)
	if idx < 0 || pg >= len(s.pages) {
		return 0, 0, OutOfRange{idx}
	}
	return pg, offset, nil
}

// Len returns the segment capacity in bytes.
func (s *segment) Len() int {
	return len(s.pages) * PageSize
}

// Pages returns the number of pages the segment holds.
func (s *segment) Pages() int {
	return len(s.pages)
}

// Peek returns the byte at idx without any side effects.
func (s *segment) Peek(idx int) (uint8, error) {
	pg, offset, err := s.checkIdx(idx)
	if err != nil {
		return 0, err
	}
	return s.pages[pg][offset], nil
}

// Read returns the byte at idx. For these segments it is identical to
// Peek; the distinction exists so a future device backed segment can
// implement destructive reads.
func (s *segment) Read(idx int) (uint8, error) {
	return s.Peek(idx)
}

// ReadPageOffset is the unchecked fast path used by the bus once the
// address decoder has validated the page.
func (s *segment) ReadPageOffset(pg int, offset uint8) uint8 {
	return s.pages[pg][offset]
}

// Contents returns a copy of the entire segment, pages concatenated in
// ascending order.
func (s *segment) Contents() []byte {
	out := make([]byte, 0, s.Len())
	for i := range s.pages {
		out = append(out, s.pages[i][:]...)
	}
	return out
}

// load copies b into the segment starting at page 0 offset 0, clamping
// at capacity. Returns the number of bytes copied.
func (s *segment) load(b []byte) int {
	n := 0
	for i, v := range b {
		pg, offset := idxSplit(i)
		if pg >= len(s.pages) {
			break
		}
		s.pages[pg][offset] = v
		n++
	}
	return n
}

// RAM is the read/write segment variant.
type RAM struct {
	segment
}

// NewRAM allocates a RAM segment of numPages zeroed pages.
func NewRAM(numPages int) (*RAM, error) {
	s, err := newSegment(numPages)
	if err != nil {
		return nil, err
	}
	return &RAM{s}, nil
}

// Load copies b into the segment starting at page 0. Bytes past
// capacity are dropped.
func (r *RAM) Load(b []byte) {
	r.load(b)
}

// Write stores val at idx.
func (r *RAM) Write(idx int, val uint8) error {
	pg, offset, err := r.checkIdx(idx)
	if err != nil {
		return err
	}
	r.pages[pg][offset] = val
	return nil
}

// WritePageOffset is the unchecked fast path used by the bus.
func (r *RAM) WritePageOffset(pg int, offset uint8, val uint8) {
	r.pages[pg][offset] = val
}

// ROM is the read only segment variant. Its contents are fixed by Load
// at machine construction; it exposes no mutating byte accessors.
type ROM struct {
	segment
}

// NewROM allocates a ROM segment of numPages zeroed pages.
func NewROM(numPages int) (*ROM, error) {
	s, err := newSegment(numPages)
	if err != nil {
		return nil, err
	}
	return &ROM{s}, nil
}

// Load copies the image b into the segment starting at page 0. Unlike
// the RAM variant an oversized image is an error since truncating a
// ROM silently would corrupt the vectors at its top.
func (r *ROM) Load(b []byte) error {
	if len(b) > r.Len() {
		return OutOfRange{len(b) - 1}
	}
	r.load(b)
	return nil
}
