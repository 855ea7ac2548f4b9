package insts

// Op identifies an instruction mnemonic. A single enumeration covers both the
// T32 and A64 instruction sets; shift and register-extension mnemonics are
// part of the same space because instruction records reference them as the
// shift type and index-extension of an operand.
type Op uint16

// OpInvalid marks an undecodable encoding. Invalid instruction records carry
// it together with their address and length.
const OpInvalid Op = 0

// Shift and extension mnemonics.
const (
	OpLSL Op = iota + 1
	OpLSR
	OpASR
	OpROR
	OpRRX
	OpUXTB
	OpUXTH
	OpUXTW
	OpUXTX
	OpSXTB
	OpSXTH
	OpSXTW
	OpSXTX
)

// Data processing.
const (
	OpADC Op = iota + 64
	OpADD
	OpADR
	OpADRP
	OpAND
	OpBFC
	OpBFI
	OpBFM
	OpBIC
	OpBICS
	OpCCMN
	OpCCMP
	OpCLS
	OpCLZ
	OpCMN
	OpCMP
	OpCSEL
	OpCSINC
	OpCSINV
	OpCSNEG
	OpEON
	OpEOR
	OpEXTR
	OpMADD
	OpMLA
	OpMLS
	OpMOV
	OpMOVK
	OpMOVN
	OpMOVT
	OpMOVZ
	OpMSUB
	OpMUL
	OpMVN
	OpORN
	OpORR
	OpRBIT
	OpREV
	OpREV16
	OpREV32
	OpREVSH
	OpRSB
	OpSBC
	OpSBFM
	OpSBFX
	OpSDIV
	OpSMADDL
	OpSMLAL
	OpSMSUBL
	OpSMULH
	OpSMULL
	OpSUB
	OpTEQ
	OpTST
	OpUBFM
	OpUBFX
	OpUDIV
	OpUMADDL
	OpUMLAL
	OpUMSUBL
	OpUMULH
	OpUMULL
)

// Branches, exceptions, system.
const (
	OpB Op = iota + 192
	OpBKPT
	OpBL
	OpBLR
	OpBLX
	OpBR
	OpBRK
	OpBX
	OpCBNZ
	OpCBZ
	OpCLREX
	OpDMB
	OpDRPS
	OpDSB
	OpERET
	OpHLT
	OpHVC
	OpISB
	OpIT
	OpMRS
	OpMSR
	OpNOP
	OpRET
	OpSEV
	OpSEVL
	OpSMC
	OpSVC
	OpTBNZ
	OpTBZ
	OpUDF
	OpWFE
	OpWFI
	OpYIELD
)

// Loads and stores.
const (
	OpLDM Op = iota + 256
	OpLDMDB
	OpLDP
	OpLDPSW
	OpLDR
	OpLDRB
	OpLDRD
	OpLDREX
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpLDRSW
	OpLDUR
	OpLDURB
	OpLDURH
	OpLDURSB
	OpLDURSH
	OpLDURSW
	OpPOP
	OpPRFM
	OpPUSH
	OpSTM
	OpSTMDB
	OpSTP
	OpSTR
	OpSTRB
	OpSTRD
	OpSTREX
	OpSTRH
	OpSTUR
	OpSTURB
	OpSTURH
)

// Floating point and SIMD.
const (
	OpFABS Op = iota + 320
	OpFADD
	OpFCMP
	OpFCMPE
	OpFCSEL
	OpFCVT
	OpFCVTZS
	OpFCVTZU
	OpFDIV
	OpFMAX
	OpFMAXNM
	OpFMIN
	OpFMINNM
	OpFMOV
	OpFMUL
	OpFNEG
	OpFNMUL
	OpFSQRT
	OpFSUB
	OpSCVTF
	OpUCVTF
	OpMOVI
	OpMVNI
	OpVADD
	OpVSUB
	OpVMUL
	OpVAND
	OpVBIC
	OpVORR
	OpVORN
	OpVEOR
	OpVBSL
	OpVBIT
	OpVBIF
	OpVFADD
	OpVFSUB
	OpVFMUL
	OpVFDIV
	OpVFMAX
	OpVFMIN
)

var opNames = map[Op]string{
	OpInvalid: "invalid",
	OpLSL:     "lsl", OpLSR: "lsr", OpASR: "asr", OpROR: "ror", OpRRX: "rrx",
	OpUXTB: "uxtb", OpUXTH: "uxth", OpUXTW: "uxtw", OpUXTX: "uxtx",
	OpSXTB: "sxtb", OpSXTH: "sxth", OpSXTW: "sxtw", OpSXTX: "sxtx",
	OpADC: "adc", OpADD: "add", OpADR: "adr", OpADRP: "adrp", OpAND: "and",
	OpBFC: "bfc", OpBFI: "bfi", OpBFM: "bfm", OpBIC: "bic", OpBICS: "bics",
	OpCCMN: "ccmn", OpCCMP: "ccmp", OpCLS: "cls", OpCLZ: "clz",
	OpCMN: "cmn", OpCMP: "cmp",
	OpCSEL: "csel", OpCSINC: "csinc", OpCSINV: "csinv", OpCSNEG: "csneg",
	OpEON: "eon", OpEOR: "eor", OpEXTR: "extr",
	OpMADD: "madd", OpMLA: "mla", OpMLS: "mls", OpMOV: "mov", OpMOVK: "movk",
	OpMOVN: "movn", OpMOVT: "movt", OpMOVZ: "movz", OpMSUB: "msub",
	OpMUL: "mul", OpMVN: "mvn", OpORN: "orn", OpORR: "orr",
	OpRBIT: "rbit", OpREV: "rev", OpREV16: "rev16", OpREV32: "rev32",
	OpREVSH: "revsh", OpRSB: "rsb", OpSBC: "sbc", OpSBFM: "sbfm",
	OpSBFX: "sbfx", OpSDIV: "sdiv",
	OpSMADDL: "smaddl", OpSMLAL: "smlal", OpSMSUBL: "smsubl",
	OpSMULH: "smulh", OpSMULL: "smull", OpSUB: "sub",
	OpTEQ: "teq", OpTST: "tst", OpUBFM: "ubfm", OpUBFX: "ubfx",
	OpUDIV: "udiv", OpUMADDL: "umaddl", OpUMLAL: "umlal",
	OpUMSUBL: "umsubl", OpUMULH: "umulh", OpUMULL: "umull",
	OpB: "b", OpBKPT: "bkpt", OpBL: "bl", OpBLR: "blr", OpBLX: "blx",
	OpBR: "br", OpBRK: "brk", OpBX: "bx", OpCBNZ: "cbnz", OpCBZ: "cbz",
	OpCLREX: "clrex", OpDMB: "dmb", OpDRPS: "drps", OpDSB: "dsb",
	OpERET: "eret", OpHLT: "hlt", OpHVC: "hvc", OpISB: "isb", OpIT: "it",
	OpMRS: "mrs", OpMSR: "msr", OpNOP: "nop", OpRET: "ret",
	OpSEV: "sev", OpSEVL: "sevl", OpSMC: "smc", OpSVC: "svc",
	OpTBNZ: "tbnz", OpTBZ: "tbz", OpUDF: "udf",
	OpWFE: "wfe", OpWFI: "wfi", OpYIELD: "yield",
	OpLDM: "ldm", OpLDMDB: "ldmdb", OpLDP: "ldp", OpLDPSW: "ldpsw", OpLDR: "ldr",
	OpLDRB: "ldrb", OpLDRD: "ldrd", OpLDREX: "ldrex", OpLDRH: "ldrh",
	OpLDRSB: "ldrsb", OpLDRSH: "ldrsh", OpLDRSW: "ldrsw",
	OpLDUR: "ldur", OpLDURB: "ldurb", OpLDURH: "ldurh",
	OpLDURSB: "ldursb", OpLDURSH: "ldursh", OpLDURSW: "ldursw",
	OpPOP: "pop", OpPRFM: "prfm", OpPUSH: "push",
	OpSTM: "stm", OpSTMDB: "stmdb", OpSTP: "stp", OpSTR: "str",
	OpSTRB: "strb", OpSTRD: "strd", OpSTREX: "strex", OpSTRH: "strh",
	OpSTUR: "stur", OpSTURB: "sturb", OpSTURH: "sturh",
	OpFABS: "fabs", OpFADD: "fadd", OpFCMP: "fcmp", OpFCMPE: "fcmpe",
	OpFCSEL: "fcsel", OpFCVT: "fcvt", OpFCVTZS: "fcvtzs", OpFCVTZU: "fcvtzu",
	OpFDIV: "fdiv", OpFMAX: "fmax", OpFMAXNM: "fmaxnm", OpFMIN: "fmin",
	OpFMINNM: "fminnm", OpFMOV: "fmov", OpFMUL: "fmul", OpFNEG: "fneg",
	OpFNMUL: "fnmul", OpFSQRT: "fsqrt", OpFSUB: "fsub",
	OpSCVTF: "scvtf", OpUCVTF: "ucvtf", OpMOVI: "movi", OpMVNI: "mvni",
	OpVADD: "add", OpVSUB: "sub", OpVMUL: "mul",
	OpVAND: "and", OpVBIC: "bic", OpVORR: "orr", OpVORN: "orn",
	OpVEOR: "eor", OpVBSL: "bsl", OpVBIT: "bit", OpVBIF: "bif",
	OpVFADD: "fadd", OpVFSUB: "fsub", OpVFMUL: "fmul", OpVFDIV: "fdiv",
	OpVFMAX: "fmax", OpVFMIN: "fmin",
}

// String returns the lowercase mnemonic for debugging output.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "op?"
}
