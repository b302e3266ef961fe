// Package diag defines the diagnostic model shared by the lexer, the macro
// sequencer, the parser and the IR passes.
//
// Producers talk to a Reporter. BagReporter collects into a Bag; Manager keeps
// per-ticket channels ("audit tickets") with hash based deduplication and
// renders them in plain, ANSI-16 or true-colour style.
//
// Diagnostics are data. Nothing in this package prints on its own: Render
// hands formatted text to a caller supplied handler.
package diag
