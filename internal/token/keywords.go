package token

var keywords = map[string]Kind{
	"module":     KwModule,
	"import":     KwImport,
	"as":         KwAs,
	"func":       KwFunc,
	"struct":     KwStruct,
	"enum":       KwEnum,
	"trait":      KwTrait,
	"impl":       KwImpl,
	"where":      KwWhere,
	"case":       KwCase,
	"pub":        KwPub,
	"let":        KwLet,
	"var":        KwVar,
	"mut":        KwMut,
	"const":      KwConst,
	"if":         KwIf,
	"else":       KwElse,
	"while":      KwWhile,
	"for":        KwFor,
	"in":         KwIn,
	"match":      KwMatch,
	"break":      KwBreak,
	"continue":   KwContinue,
	"return":     KwReturn,
	"concurrent": KwConcurrent,
	"try":        KwTry,
	"catch":      KwCatch,
	"finally":    KwFinally,
	"throw":      KwThrow,
	"range":      KwRange,
	"forall":     KwForall,
	"exists":     KwExists,
	"true":       KwTrue,
	"false":      KwFalse,

	"int":        KwInt,
	"int8":       KwInt8,
	"int16":      KwInt16,
	"int32":      KwInt32,
	"int64":      KwInt64,
	"uint":       KwUint,
	"uint8":      KwUint8,
	"uint16":     KwUint16,
	"uint32":     KwUint32,
	"uint64":     KwUint64,
	"float":      KwFloat,
	"float32":    KwFloat32,
	"float64":    KwFloat64,
	"bool":       KwBool,
	"char":       KwChar,
	"string":     KwString,
	"void":       KwVoid,
	"size_t":     KwSizeT,
	"uintptr_t":  KwUintptrT,
	"nothing":    NothingLit,
}

// LookupKeyword reports the Kind of ident if it names a keyword in the
// closed keyword set (§6); keywords are case-sensitive, lowercase only.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
