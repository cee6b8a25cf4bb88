/*
Package parselly implements a CSS Selectors Level 3/4 parser. It is a
low-level library for turning a selector string into an abstract syntax
tree: it does not match selectors against a DOM, sanitize identifiers,
or offer a CLI.


Basics

Parsing occurs in three steps. First the lexer breaks the selector
string into a stream of tokens: identifiers, strings, numbers, and the
punctuation and match operators the grammar needs. A token
preprocessor then walks that stream and inserts a synthetic descendant
token wherever adjacent tokens are separated only by (already
discarded) whitespace that carries grammatical meaning, the same way
CSS's own descendant combinator is "just a space." Finally the grammar
driver consumes the preprocessed stream and builds the tree, left
associative: "a > b + c" becomes (((a) > b) + c).


Abstract Syntax Tree

The tree is built from a single Node type rather than one Go type per
selector kind. At the top is a selector_list, a list of one or more
selectors (or, inside a functional pseudo-class's argument, relative
selectors). A selector is either a single simple_selector_sequence or,
when combinators are present, a binary tree of selector nodes with
exactly three children: a left operand, a combinator leaf, and a right
operand.

A simple_selector_sequence holds at most one type or universal
selector, followed by zero or more subclass selectors: id, class,
attribute, pseudo-class, or pseudo-element. Attribute selectors are
either bare ("[disabled]") or carry an operator and a value
("[type=\"text\"]"). Functional pseudo-classes such as :is(), :not(),
:has(), and the :nth-* family hold exactly one child: a string
argument, an An+B value, or a nested selector_list.

A second pass over the finished tree, the An+B normalizer, rewrites
any :nth-* argument that was parsed as a generic one-element selector
list back into a proper an_plus_b node; the grammar driver already
resolves the overwhelming majority of these during parsing, and the
normalizer exists to catch what's left.
*/
package parselly
