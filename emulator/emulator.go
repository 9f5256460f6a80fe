// emulator boots a W65C02S machine from each ROM image given on the
// command line, runs it until the program executes BRK and then writes
// the 32 KiB RAM contents to <stem>_ram.bin for inspection.
//
// ROM files must be at least 32 KiB; the upper 32 KiB of the file is
// the image, mapped at CPU addresses 0x8000-0xFFFF, so the reset, NMI
// and IRQ/BRK vectors sit in the top six bytes of the file.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v2"

	"github.com/JForte05/Steel6502/bus"
	"github.com/JForte05/Steel6502/cpu"
	"github.com/JForte05/Steel6502/debugger"
	"github.com/JForte05/Steel6502/disassemble"
)

type options struct {
	outDir string
	trace  bool
	image  bool
	debug  bool
}

func main() {
	app := &cli.App{
		Name:  "emulator",
		Usage: "Run W65C02S ROM images to completion and dump RAM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "existing directory to receive RAM dumps",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "log a disassembly line for every instruction executed",
			},
			&cli.BoolFlag{
				Name:  "image",
				Usage: "also write the RAM dump as a BMP next to the .bin",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "step interactively instead of running to BRK",
			},
		},
		Action: func(c *cli.Context) error {
			opts := options{
				outDir: c.String("out"),
				trace:  c.Bool("trace"),
				image:  c.Bool("image"),
				debug:  c.Bool("debug"),
			}
			if fi, err := os.Stat(opts.outDir); err != nil || !fi.IsDir() {
				return cli.Exit(fmt.Sprintf("output path %q is not a directory", opts.outDir), 1)
			}
			roms := c.Args().Slice()
			if len(roms) == 0 {
				cli.ShowAppHelp(c)
				return cli.Exit("no ROM file given", 1)
			}
			for _, rom := range roms {
				if err := runROM(rom, opts); err != nil {
					return cli.Exit(fmt.Sprintf("%s: %v", rom, err), 1)
				}
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runROM emulates a single ROM image through to BRK and persists the
// RAM contents.
func runROM(path string, opts options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	if len(data) < bus.ROMSize {
		return fmt.Errorf("malformed ROM file: %d bytes, need at least %d", len(data), bus.ROMSize)
	}
	image := data[len(data)-bus.ROMSize:]

	machine, err := bus.New(image)
	if err != nil {
		return fmt.Errorf("building machine: %w", err)
	}
	chip := cpu.Init(nil)
	if err := chip.Reset(machine); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	log.Printf("Emulating %s", stem)

	if opts.debug {
		if err := debugger.Run(chip, machine); err != nil {
			return err
		}
	} else {
		for {
			if opts.trace {
				line, _ := disassemble.Step(chip.PC, machine)
				log.Print(line)
			}
			mnemonic, err := chip.Step(machine)
			if err != nil {
				return err
			}
			if mnemonic == cpu.BRK {
				break
			}
		}
	}

	contents := machine.RAMContents()
	out := filepath.Join(opts.outDir, stem+"_ram.bin")
	if err := os.WriteFile(out, contents, 0644); err != nil {
		return fmt.Errorf("writing RAM dump: %w", err)
	}
	if opts.image {
		if err := writeRAMImage(filepath.Join(opts.outDir, stem+"_ram.bmp"), contents); err != nil {
			return fmt.Errorf("writing RAM image: %w", err)
		}
	}
	return nil
}
