/*

Process of compilation

Program Text ->
	scan ->
Tokens ->
	parse, declare, check types ->
Abstract Syntax Tree (ast) + Symbol Table (symtab) ->
	generate ->
MIPS Assembly Text

Diagnostics

Abstract Syntax Tree ->
	format ->
Indented Tree Text

Symbol Table ->
	format ->
Symbol Table Text

*/
package compiler
