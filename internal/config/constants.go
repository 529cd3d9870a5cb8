// Package config carries the small set of constants that define the
// recipe DSL's surface syntax, shared by the lexer and parser so
// neither of them hardcodes magic strings independently.
package config

// Version is the current morpher module version.
var Version = "0.1.0"

// CommentMarker begins a comment line; the rest of the line is discarded.
const CommentMarker = "--"

// ContinuationPrefix marks a line as a continuation of the previous one.
const ContinuationPrefix = "\t"

// PartSeparator splits a line into Parts; it is deliberately three
// characters (space-dot-space) so that a lone "." inside a token (a
// decimal number argument, say) is never mistaken for a separator.
const PartSeparator = " . "

// TokenSeparator splits a Part into word tokens.
const TokenSeparator = " "

// Input opcodes.
const (
	OpTake = "take"
	OpDrop = "drop"
)

// Pointer opcodes.
const (
	OpFull    = "#"
	OpFullAll = "#full"
	OpPartial = "#partial"
	OpFirst   = "#first"
	OpLast    = "#last"
	OpNth     = "#nth"
)

// Transformation opcodes.
const (
	OpID      = "!"
	OpIDAlias = "!id"
	OpExtract = "!extract"
	OpFlatten = "!flatten"
	OpApply   = "!apply"
	OpLower   = "!lower"
	OpUpper   = "!upper"
)

// Naming opcodes.
const (
	OpAlias      = "@"
	OpAliasAlias = "@alias"
	OpPrefix     = "@prefix"
	OpSuffix     = "@suffix"
	OpSplit      = "@split"
)

// Casting opcodes.
const (
	OpCast        = "^"
	OpCastAlias   = "^cast"
	OpSafeCast    = "^safe_cast"
	OpDefaultCast = "^default_cast"
)

// Final type names as spelled in recipe text.
const (
	FinalTypeString     = "string"
	FinalTypeInteger    = "integer"
	FinalTypeDecimal    = "decimal"
	FinalTypeFloat      = "float"
	FinalTypeTimestamp  = "timestamp"
	FinalTypeUnixtime   = "unixtime"
	FinalTypeUnixtimeMs = "unixtime_ms"
	FinalTypeBool       = "bool"
	FinalTypeJSON       = "json"
	FinalTypeDate       = "date"
)
