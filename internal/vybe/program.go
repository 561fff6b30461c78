package vybe

import "strings"

// TradingProgram identifies a DEX program the venue can stream trades for.
type TradingProgram string

// Known trading programs.
const (
	MeteoraDLMM    TradingProgram = "METEORA_DLMM"
	MeteoraPools   TradingProgram = "METEORA_POOLS"
	LifinitySwapV2 TradingProgram = "LIFINITY_SWAP_V2"
	LifinitySwapV1 TradingProgram = "LIFINITY_SWAP_V1"
	OpenbookV2     TradingProgram = "OPENBOOK_V2"
	RaydiumV4      TradingProgram = "RAYDIUM_V4"
	RaydiumCLMM    TradingProgram = "RAYDIUM_CLMM"
	OrcaWhirlpool  TradingProgram = "ORCA_WHIRPOOL"
	Phoenix        TradingProgram = "PHOENIX"
	PumpFun        TradingProgram = "PUMP_FUN"
)

var programIDs = map[TradingProgram]string{
	MeteoraDLMM:    "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo",
	MeteoraPools:   "Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB",
	LifinitySwapV2: "2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c",
	LifinitySwapV1: "EewxydAPCCVuNEyrVN68PuSYdQ7wKn27V9Gjeoi8dy3S",
	OpenbookV2:     "opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb",
	RaydiumV4:      "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
	RaydiumCLMM:    "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK",
	OrcaWhirlpool:  "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc",
	Phoenix:        "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY",
	PumpFun:        "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P",
}

// String returns the venue name of the program.
func (p TradingProgram) String() string {
	return string(p)
}

// ProgramID returns the on-chain program address, or "" for unknown programs.
func (p TradingProgram) ProgramID() string {
	return programIDs[p]
}

// ParseTradingProgram resolves a program by name, case-insensitively.
func ParseTradingProgram(name string) (TradingProgram, bool) {
	p := TradingProgram(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := programIDs[p]
	return p, ok
}
