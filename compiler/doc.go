/*

Process of compilation

Program Text ->
	parse ->
Intermediate Representation (ir) ->
	optimize (tier 0, 1 or 2) ->
Intermediate Representation (ir) ->
	interpret
	  or
	emit llvm ir ->
		clang ->
	Binary Executable

*/
package compiler
