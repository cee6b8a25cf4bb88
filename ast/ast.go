// Package ast defines the Parselly abstract syntax tree: a single
// uniform Node type (rather than the teacher's one-struct-per-kind
// Node interface) since the grammar this tree serves needs parent
// back-references, a cached descendant list invalidated on mutation,
// and derived queries that walk indiscriminately over every kind of
// selector node. Node keeps the teacher's convention that every tree
// type implements String() for serialization.
package ast

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/ydah/parselly/token"
)

// Type is the closed set of node kinds a selector tree is built from.
type Type int

const (
	// Structural
	SelectorList Type = iota
	Selector
	SimpleSelectorSequence

	// Selectors
	TypeSelector
	UniversalSelector
	IDSelector
	ClassSelector
	AttributeSelector
	PseudoClass
	PseudoElement
	PseudoFunction

	// Attribute-selector children
	Attribute
	Value
	EqualOperator
	IncludesOperator
	DashmatchOperator
	PrefixmatchOperator
	SuffixmatchOperator
	SubstringmatchOperator

	// Functional-pseudo children
	Argument
	AnPlusB

	// Combinators (leaves with a literal value)
	ChildCombinator
	AdjacentCombinator
	SiblingCombinator
	DescendantCombinator
)

var typeNames = [...]string{
	SelectorList:           "selector_list",
	Selector:               "selector",
	SimpleSelectorSequence: "simple_selector_sequence",
	TypeSelector:           "type_selector",
	UniversalSelector:      "universal_selector",
	IDSelector:             "id_selector",
	ClassSelector:          "class_selector",
	AttributeSelector:      "attribute_selector",
	PseudoClass:            "pseudo_class",
	PseudoElement:          "pseudo_element",
	PseudoFunction:         "pseudo_function",
	Attribute:              "attribute",
	Value:                  "value",
	EqualOperator:          "equal_operator",
	IncludesOperator:       "includes_operator",
	DashmatchOperator:      "dashmatch_operator",
	PrefixmatchOperator:    "prefixmatch_operator",
	SuffixmatchOperator:    "suffixmatch_operator",
	SubstringmatchOperator: "substringmatch_operator",
	Argument:               "argument",
	AnPlusB:                "an_plus_b",
	ChildCombinator:        "child_combinator",
	AdjacentCombinator:     "adjacent_combinator",
	SiblingCombinator:      "sibling_combinator",
	DescendantCombinator:   "descendant_combinator",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// AnPlusBPattern is the canonical An+B value grammar from the spec:
// even, odd, signed "n"-terms with an optional offset, or a bare
// integer.
var AnPlusBPattern = regexp.MustCompile(`^(even|odd|[+-]?\d*n(?:[+-]\d+)?|[+-]?n(?:[+-]\d+)?|\d+)$`)

// Node is a single element of the selector tree. Every node owns its
// children exclusively; Parent is a weak back-reference maintained
// only by AddChild/ReplaceChild, never by direct slice mutation.
type Node struct {
	Type     Type
	Value    string
	Children []*Node
	Parent   *Node
	Pos      token.Pos

	descendants      []*Node
	descendantsValid bool
}

// New constructs a detached node of the given type.
func New(t Type, value string, pos token.Pos) *Node {
	return &Node{Type: t, Value: value, Pos: pos}
}

// AddChild appends c as the last child of n, sets its parent, and
// invalidates the descendant cache of n and every ancestor of n.
func (n *Node) AddChild(c *Node) {
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	n.Children = append(n.Children, c)
	c.Parent = n
	n.invalidateUpward()
}

// ReplaceChild replaces the child at index i with c, updating parent
// links and invalidating the descendant cache upward. Out-of-range i
// is a no-op.
func (n *Node) ReplaceChild(i int, c *Node) {
	if i < 0 || i >= len(n.Children) {
		return
	}
	old := n.Children[i]
	old.Parent = nil
	n.Children[i] = c
	c.Parent = n
	n.invalidateUpward()
}

func (n *Node) removeChild(c *Node) {
	for i, ch := range n.Children {
		if ch == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			n.invalidateUpward()
			return
		}
	}
}

func (n *Node) invalidateUpward() {
	for cur := n; cur != nil; cur = cur.Parent {
		cur.descendantsValid = false
	}
}

// Descendants returns every node below n (not including n itself) in
// pre-order, cached by identity until the next AddChild/ReplaceChild
// that invalidates it.
func (n *Node) Descendants() []*Node {
	if n.descendantsValid {
		return n.descendants
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	n.descendants = out
	n.descendantsValid = true
	return out
}

// Ancestors returns the parent chain from n up to and including the
// root, nearest first. Never cached.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// Siblings returns n's parent's children minus n, in tree order. Nil
// for a node with no parent.
func (n *Node) Siblings() []*Node {
	if n.Parent == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Parent.Children {
		if c != n {
			out = append(out, c)
		}
	}
	return out
}

// ID returns the value of the first id_selector found in n's
// descendants (or n itself), and whether one was found.
func (n *Node) ID() (string, bool) {
	for _, c := range n.selfAndDescendants() {
		if c.Type == IDSelector {
			return c.Value, true
		}
	}
	return "", false
}

// Classes returns the values of every class_selector in n's subtree,
// in tree order.
func (n *Node) Classes() []string {
	var out []string
	for _, c := range n.selfAndDescendants() {
		if c.Type == ClassSelector {
			out = append(out, c.Value)
		}
	}
	return out
}

// Attr describes one attribute selector, bare or operated.
type Attr struct {
	Name     string
	Operator string // "" for a bare [name] selector
	Value    string
}

// Attributes returns every attribute selector in n's subtree.
func (n *Node) Attributes() []Attr {
	var out []Attr
	for _, c := range n.selfAndDescendants() {
		if c.Type != AttributeSelector {
			continue
		}
		if len(c.Children) == 0 {
			out = append(out, Attr{Name: c.Value})
			continue
		}
		a := Attr{Name: c.Children[0].Value, Operator: operatorLiteral(c.Children[1].Type)}
		if len(c.Children) > 2 {
			a.Value = c.Children[2].Value
		}
		out = append(out, a)
	}
	return out
}

func operatorLiteral(t Type) string {
	switch t {
	case EqualOperator:
		return "="
	case IncludesOperator:
		return "~="
	case DashmatchOperator:
		return "|="
	case PrefixmatchOperator:
		return "^="
	case SuffixmatchOperator:
		return "$="
	case SubstringmatchOperator:
		return "*="
	default:
		return ""
	}
}

// PseudoClasses returns the values of every pseudo_class, pseudo_element,
// or pseudo_function in n's subtree, in tree order.
func (n *Node) PseudoClasses() []string {
	var out []string
	for _, c := range n.selfAndDescendants() {
		if c.Type == PseudoClass || c.Type == PseudoElement || c.Type == PseudoFunction {
			out = append(out, c.Value)
		}
	}
	return out
}

// IsCompoundSelector reports whether n mixes two or more distinct
// kinds drawn from {id, class, attribute, pseudo, type}. Two classes
// do not count: the kinds must be distinct.
func (n *Node) IsCompoundSelector() bool {
	kinds := map[string]bool{}
	for _, c := range n.Children {
		switch c.Type {
		case IDSelector:
			kinds["id"] = true
		case ClassSelector:
			kinds["class"] = true
		case AttributeSelector:
			kinds["attribute"] = true
		case PseudoClass, PseudoElement, PseudoFunction:
			kinds["pseudo"] = true
		case TypeSelector, UniversalSelector:
			kinds["type"] = true
		}
	}
	return len(kinds) >= 2
}

// HasTypeSelector reports whether n or any descendant is a
// type_selector.
func (n *Node) HasTypeSelector() bool {
	for _, c := range n.selfAndDescendants() {
		if c.Type == TypeSelector {
			return true
		}
	}
	return false
}

func (n *Node) selfAndDescendants() []*Node {
	return append([]*Node{n}, n.Descendants()...)
}

// ToSelector deterministically re-serializes n into canonical selector
// syntax, per the per-node-type rules in the design notes.
func (n *Node) ToSelector() string {
	var buf bytes.Buffer
	n.writeSelector(&buf)
	return buf.String()
}

// String is an alias for ToSelector, matching the convention that
// every tree node implements fmt.Stringer.
func (n *Node) String() string {
	return n.ToSelector()
}

func (n *Node) writeSelector(buf *bytes.Buffer) {
	switch n.Type {
	case SelectorList:
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteString(", ")
			}
			c.writeSelector(buf)
		}
	case Selector:
		n.Children[0].writeSelector(buf)
		buf.WriteString(combinatorLiteral(n.Children[1]))
		n.Children[2].writeSelector(buf)
	case SimpleSelectorSequence:
		for _, c := range n.Children {
			c.writeSelector(buf)
		}
	case TypeSelector, UniversalSelector:
		buf.WriteString(n.Value)
	case IDSelector:
		buf.WriteString("#")
		buf.WriteString(n.Value)
	case ClassSelector:
		buf.WriteString(".")
		buf.WriteString(n.Value)
	case PseudoClass:
		buf.WriteString(":")
		buf.WriteString(n.Value)
	case PseudoElement:
		buf.WriteString("::")
		buf.WriteString(n.Value)
	case PseudoFunction:
		buf.WriteString(":")
		buf.WriteString(n.Value)
		buf.WriteString("(")
		n.Children[0].writeSelector(buf)
		buf.WriteString(")")
	case AttributeSelector:
		buf.WriteString("[")
		if len(n.Children) == 0 {
			buf.WriteString(n.Value)
		} else {
			buf.WriteString(n.Children[0].Value)
			buf.WriteString(operatorLiteral(n.Children[1].Type))
			buf.WriteString("\"")
			buf.WriteString(n.Children[2].Value)
			buf.WriteString("\"")
		}
		buf.WriteString("]")
	case Argument, AnPlusB:
		buf.WriteString(n.Value)
	default:
		buf.WriteString(n.Value)
	}
}

func combinatorLiteral(n *Node) string {
	switch n.Type {
	case ChildCombinator:
		return " > "
	case AdjacentCombinator:
		return " + "
	case SiblingCombinator:
		return " ~ "
	case DescendantCombinator:
		return " "
	default:
		return n.Value
	}
}
