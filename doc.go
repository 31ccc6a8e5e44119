/* Package rpn implements an embeddable stack-based scripting language.

The language is a small concatenative one: a program is a sequence of
forms, each either a literal value or a call by bare word.  Evaluating a
literal pushes it onto the data stack; evaluating a call looks the word up
in the dictionary and invokes its definition, which is either a native
function supplied by the host or a user-defined block bound with fn.

All execution shares one data stack and one dictionary, both owned by a VM
instance.  There are no call frames and no closures: a block's only state
is its parsed body, and parameter passing is purely a stack discipline
between caller and callee.

Surface syntax:

	42 -7            ( integers; precision fixed per VM, see WithPrecision )
	3.25 1e-3        ( 64-bit IEEE floats )
	"hi\n"           ( strings with the usual escapes )
	:name            ( a symbol: plain data until handed to fn )
	{ dup * }        ( a block literal: pushed, not run )
	swap             ( everything else is a call )
	( commentary )   ( comments do not nest )

Defining and using a word:

	:square ( n -- n^2 ) { dup * } fn
	7 square

The stack-effect comment after the name is just a comment; fn pops the
block and the symbol and binds the name.  Repetition is a combinator over
block data rather than syntax:

	10 0 1 rot { over + swap } times pop   ( 55, the 10th Fibonacci number )

Hosts embed the engine by constructing a VM, registering extra natives,
and exchanging Items through Push and Pop around Run calls.  One VM is
single-threaded; concurrent scripts want one VM each.
*/
package rpn
