// Package loader extracts disassembly input from ARM64 ELF binaries: the
// executable segments with their load addresses.
package loader

import (
	"debug/elf"
	"fmt"
	"io"
)

// CodeSegment is one executable region of a binary.
type CodeSegment struct {
	// Addr is the virtual address the segment loads at.
	Addr uint64
	// Data contains the segment bytes present in the file.
	Data []byte
}

// Program is the disassembly-relevant view of a loaded binary.
type Program struct {
	// EntryPoint is the virtual address where execution begins.
	EntryPoint uint64
	// Code contains the executable segments in file order.
	Code []CodeSegment
}

// Load parses an ARM64 ELF binary and returns its executable segments.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("not a 64-bit ELF file")
	}
	if f.Machine != elf.EM_AARCH64 {
		return nil, fmt.Errorf("not an ARM64 ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{EntryPoint: f.Entry}
	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD || phdr.Flags&elf.PF_X == 0 {
			continue
		}
		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}
		prog.Code = append(prog.Code, CodeSegment{Addr: phdr.Vaddr, Data: data})
	}
	if len(prog.Code) == 0 {
		return nil, fmt.Errorf("no executable segments")
	}
	return prog, nil
}
