// Package textutil provides text processing utilities for word counting,
// title derivation, keyword splitting, and filename sanitization.
//
// Word counts use whitespace tokenization so markdown markup counts as part
// of adjacent tokens; this is the same measure the assembler validates
// generated drafts against. Title derivation collapses separator punctuation
// and title-cases the result for use when generated text yields no usable
// heading line.
package textutil
