// Package syntax implements the syntax analyzer for a small declaration and
// expression language. It consumes tokens produced by an external lexer and
// builds an abstract syntax tree:
//   - Typed declarations: `int x;` and `float rate = 2 * base;`.
//   - Assignments to declared names: `x = x + 1;`.
//   - Expression statements with `+ - * / %` and parentheses, using the usual
//     precedence and left associativity.
//
// A single flat symbol table tracks declarations so the parser can report
// duplicates and reads or writes of undeclared names. Problems are collected
// as diagnostics rather than returned as the first error; after a statement
// fails structurally the parser skips ahead to the next statement boundary.
//
// Token streams can be decoded from JSON, YAML or a whitespace-separated
// notation such as `int x = 5 ;`.
package syntax
