// makerom builds a runnable 32 KiB ROM image from a hand assembled
// listing of the form:
//
// XXXX B1 B2 B3 ...
//
// where XXXX is the address field (0x8000-0xFFFF) and B1..Bn are the
// raw instruction bytes at that address. Unlisted bytes are zero
// filled. The reset vector defaults to the first listed address; the
// NMI and IRQ/BRK vectors default to the reset target. The result is
// directly loadable by the emulator.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

var (
	resetVec = flag.Int("reset", -1, "Reset vector target. Defaults to the first listed address.")
	nmiVec   = flag.Int("nmi", -1, "NMI vector target. Defaults to the reset target.")
	irqVec   = flag.Int("irq", -1, "IRQ/BRK vector target. Defaults to the reset target.")
)

const (
	romSize = 32768
	romBase = 0x8000

	nmiOffset   = 0xFFFA - romBase
	resetOffset = 0xFFFC - romBase
	irqOffset   = 0xFFFE - romBase
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 2 {
		log.Fatalf("Invalid command: %s [-reset=XXXX] [-nmi=XXXX] [-irq=XXXX] <input> <output>", os.Args[0])
	}
	in := flag.Args()[0]
	out := flag.Args()[1]

	f, err := os.Open(in)
	if err != nil {
		log.Fatalf("Can't open %q for input - %v", in, err)
	}
	defer f.Close()

	image := make([]byte, romSize)
	first := -1

	scanner := bufio.NewScanner(f)
	l := 0
	for scanner.Scan() {
		l++
		t := strings.TrimSpace(scanner.Text())
		if t == "" || strings.HasPrefix(t, ";") || strings.HasPrefix(t, "#") {
			continue
		}
		toks := strings.Fields(t)
		if len(toks) < 2 {
			log.Fatalf("Line %d: need an address and at least one byte: %q", l, t)
		}
		addr, err := strconv.ParseUint(toks[0], 16, 16)
		if err != nil {
			log.Fatalf("Line %d: bad address %q - %v", l, toks[0], err)
		}
		if addr < romBase {
			log.Fatalf("Line %d: address %.4X below ROM base %.4X", l, addr, romBase)
		}
		if first < 0 {
			first = int(addr)
		}
		offset := int(addr) - romBase
		for _, tok := range toks[1:] {
			b, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				log.Fatalf("Line %d: bad byte %q - %v", l, tok, err)
			}
			if offset >= romSize {
				log.Fatalf("Line %d: data runs past end of address space", l)
			}
			image[offset] = byte(b)
			offset++
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Reading %q - %v", in, err)
	}
	if first < 0 {
		log.Fatalf("No data lines found in %q", in)
	}

	reset := vector(*resetVec, first, "reset")
	setVector(image, resetOffset, reset)
	setVector(image, nmiOffset, vector(*nmiVec, reset, "nmi"))
	setVector(image, irqOffset, vector(*irqVec, reset, "irq"))

	if err := os.WriteFile(out, image, 0644); err != nil {
		log.Fatalf("Can't write %q - %v", out, err)
	}
	fmt.Printf("Wrote %s, reset vector %.4X\n", out, reset)
}

// vector validates a flag supplied target, falling back to def when
// the flag was left unset.
func vector(v int, def int, name string) int {
	if v < 0 {
		return def
	}
	if v < romBase || v > 0xFFFF {
		log.Fatalf("--%s out of range. Must be between %.4X-FFFF", name, romBase)
	}
	return v
}

func setVector(image []byte, offset int, target int) {
	image[offset] = byte(target & 0xFF)
	image[offset+1] = byte((target >> 8) & 0xFF)
}
