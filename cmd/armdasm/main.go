// Package main provides the armdasm command-line disassembler.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/armdasm/config"
	"github.com/sarchlab/armdasm/dasm"
	"github.com/sarchlab/armdasm/loader"
)

var (
	archFlag   = flag.String("arch", "", "Instruction set: a64 or t32")
	baseFlag   = flag.Uint64("base", 0, "Base address for flat binary input")
	countFlag  = flag.Int("n", 0, "Stop after N instructions (0 = no limit)")
	elfFlag    = flag.Bool("elf", false, "Treat input as an ARM64 ELF binary")
	configPath = flag.String("config", "", "Path to TOML configuration file")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: armdasm [options] <binary>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *archFlag != "" {
		cfg.Input.Arch = *archFlag
	}
	if *baseFlag != 0 {
		cfg.Input.BaseAddress = *baseFlag
	}
	if *countFlag != 0 {
		cfg.Output.MaxInstructions = *countFlag
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	arch := dasm.ArchA64
	if cfg.Input.Arch == "t32" {
		arch = dasm.ArchT32
	}

	path := flag.Arg(0)
	var segments []loader.CodeSegment
	if *elfFlag {
		prog, err := loader.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
			os.Exit(1)
		}
		if cfg.Output.Verbose {
			fmt.Printf("Loaded: %s\n", path)
			fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
			fmt.Printf("Code segments: %d\n", len(prog.Code))
		}
		segments = prog.Code
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}
		segments = []loader.CodeSegment{{Addr: cfg.Input.BaseAddress, Data: data}}
	}

	printed := 0
	for _, seg := range segments {
		d := dasm.New(arch, dasm.NewImageReader(seg.Data, seg.Addr))
		for inst := range d.Instructions() {
			if cfg.Output.MaxInstructions > 0 && printed >= cfg.Output.MaxInstructions {
				return
			}
			if !inst.Valid() && !cfg.Output.ShowInvalid {
				continue
			}
			if !inst.Valid() && inst.Diag != "" && cfg.Output.Verbose {
				fmt.Printf("%s ; %s\n", inst.String(), inst.Diag)
			} else {
				fmt.Println(inst.String())
			}
			printed++
		}
	}
}
