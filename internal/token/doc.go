// Package token defines the lexical token kinds and trivia this front end
// consumes. The tokenizer itself lives outside this core; this package fixes
// the closed contract it must produce (§6).
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Annotations are lexed as '@' (Kind: At) + Ident; no per-annotation token kinds.
//   - Directives (/// ...) are represented as leading Trivia (TriviaDirective) and
//     never appear in the main token stream.
//   - Primitive type names (int, int8, uint32, float64, ...) are their own
//     keyword kinds, not identifiers — they belong to the closed keyword set.
package token
