// Package exprtree parses arithmetic expressions into trees and evaluates them.
//
// A Tokenizer splits input into tokens using an ordered list of regular
// expression rules; the first rule that matches wins. A Parser reads those
// tokens by recursive descent and builds a tree of Nodes. Sums and products are
// kept flat, so "a - b + c" is one addition node with three signed terms.
// Exponentiation is right-associative and binds tighter than a leading sign:
// "-2^2" is -(2^2). Functions take a single argument and bind tighter than any
// operator, so "sin x * 2" is (sin x) * 2.
//
// Trees are immutable. Variables are looked up only when a tree is evaluated,
// so a tree can be parsed once and evaluated many times, concurrently, with
// different bindings.
package exprtree
