// Package parse reads the named-index surface notation into texpr
// trees.
//
// Grammar (statements separated by newlines or semicolons):
//
//	stmt    := "@ignore" block | block | expr ((":=" | "=") expr)?
//	block   := "{" stmt* "}"
//	expr    := "-"? addend (("+" | "-") addend)*
//	addend  := factor ("*" factor)*
//	factor  := NUMBER
//	         | "conj" "(" expr ")"
//	         | "(" expr ")"
//	         | IDENT "'"? ("[" indices (";" indices)? "]")?
//	indices := (index ("," index)*)?
//	index   := IDENT | NUMBER
//
// A tensor reference writes its outgoing legs before the semicolon
// and its incoming legs after it: A[a,b;c]. A trailing apostrophe
// marks an adjoint reference. `:=` introduces a new object, `=`
// mutates an existing one. An identifier without a leg list is a
// scalar reference. The reserved identifier `braid` denotes the
// implicit crossing generator.
//
// Errors:
//
//	ErrSyntax - malformed input; the message names the offending
//	            token and its offset.
package parse
