// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"strings"
	"unicode"
)

// An Extractor computes the variables read and written by a statement. The analyses only ever see variables
// through an Extractor, which keeps them independent of how expressions are represented.
type Extractor interface {
	// Reads returns the variables read by the statement, without duplicates, in order of first appearance
	Reads(stmt Statement) []string
	// Writes returns the variables written by the statement
	Writes(stmt Statement) []string
}

// TokenExtractor is the syntactic Extractor working on the operand text of statements.
//
// Reads are the identifier-shaped tokens of the rhs of an assignment, the arguments of a call, the condition of an
// if or loop, and the returned expression. Only numeric, string and character literals and operators are
// discarded: in "n = strlen(p->name)", strlen, p and name are all reads.
// The only write is the leading identifier of an assignment's lhs: "a[i] = x" writes a, "*p = x" writes p.
type TokenExtractor struct{}

// FilteredExtractor is a TokenExtractor that also discards member names (after "." or "->"), names in callee
// position and a few C keywords such as NULL and sizeof. It reports fewer uninitialized reads on code using
// structures and nested calls.
type FilteredExtractor struct {
	TokenExtractor
}

// DefaultExtractor is the extractor used when none is specified
var DefaultExtractor Extractor = TokenExtractor{}

// Reads implements Extractor.Reads
func (TokenExtractor) Reads(stmt Statement) []string {
	return readsOf(stmt, Identifiers)
}

// Reads implements Extractor.Reads
func (FilteredExtractor) Reads(stmt Statement) []string {
	return readsOf(stmt, Variables)
}

func readsOf(stmt Statement, names func(string) []string) []string {
	var exprs []string
	switch stmt.Op {
	case OpAssign:
		exprs = []string{stmt.RHS}
	case OpCall:
		exprs = stmt.Args
	case OpIf, OpLoop:
		exprs = []string{stmt.Cond}
	case OpReturn:
		exprs = []string{stmt.Expr}
	}
	var reads []string
	seen := map[string]bool{}
	for _, e := range exprs {
		for _, id := range names(e) {
			if !seen[id] {
				seen[id] = true
				reads = append(reads, id)
			}
		}
	}
	return reads
}

// Writes implements Extractor.Writes
func (TokenExtractor) Writes(stmt Statement) []string {
	if stmt.Op != OpAssign {
		return nil
	}
	for _, tok := range lex(stmt.LHS) {
		if tok.kind == tokIdent {
			return []string{tok.text}
		}
	}
	return nil
}

// keywords are identifier-shaped tokens that never name a variable
var keywords = map[string]bool{
	"sizeof": true, "NULL": true, "true": true, "false": true,
	"int": true, "char": true, "short": true, "long": true, "float": true, "double": true, "void": true,
	"unsigned": true, "signed": true, "const": true, "volatile": true, "struct": true, "union": true,
	"enum": true, "static": true,
}

type tokKind int

const (
	tokIdent tokKind = iota
	tokNumber
	tokString
	tokOperator
)

type token struct {
	kind tokKind
	text string
}

// lex splits a C-like expression into tokens. It never fails: unexpected characters are single-character
// operator tokens.
func lex(expr string) []token {
	var toks []token
	rs := []rune(expr)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				if rs[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(rs) {
				j++
			}
			if j > len(rs) {
				j = len(rs)
			}
			toks = append(toks, token{tokString, string(rs[i:j])})
			i = j
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i + 1
			for j < len(rs) && (isIdentRune(rs[j]) || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j])})
			i = j
		case isIdentStart(r):
			j := i + 1
			for j < len(rs) && isIdentRune(rs[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, string(rs[i:j])})
			i = j
		case r == '-' && i+1 < len(rs) && rs[i+1] == '>':
			toks = append(toks, token{tokOperator, "->"})
			i += 2
		default:
			toks = append(toks, token{tokOperator, string(r)})
			i++
		}
	}
	return toks
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Identifiers returns the identifier-shaped tokens of the expression, in order, possibly with duplicates.
func Identifiers(expr string) []string {
	var ids []string
	for _, tok := range lex(expr) {
		if tok.kind == tokIdent {
			ids = append(ids, tok.text)
		}
	}
	return ids
}

// Variables returns the identifiers of the expression that may name a variable, in order, possibly with
// duplicates: keywords, member names and callees are left out.
func Variables(expr string) []string {
	toks := lex(expr)
	var ids []string
	for i, tok := range toks {
		if tok.kind != tokIdent || keywords[tok.text] {
			continue
		}
		if i > 0 && toks[i-1].kind == tokOperator && (toks[i-1].text == "." || toks[i-1].text == "->") {
			continue // member name
		}
		if i+1 < len(toks) && toks[i+1].kind == tokOperator && toks[i+1].text == "(" {
			continue // callee
		}
		ids = append(ids, tok.text)
	}
	return ids
}

// IsNumeric returns true if the token is a numeric literal, e.g. "0", "42", "0x1f" or "1.5f"
func IsNumeric(tok string) bool {
	toks := lex(tok)
	return len(toks) == 1 && toks[0].kind == tokNumber
}

// IsStringLiteral returns true if the expression only consists of string or character literals. Adjacent literals
// ("a" "b") are concatenated by C and count as one literal.
func IsStringLiteral(expr string) bool {
	toks := lex(strings.TrimSpace(expr))
	if len(toks) == 0 {
		return false
	}
	for _, tok := range toks {
		if tok.kind != tokString {
			return false
		}
	}
	return true
}
