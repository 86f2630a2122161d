package interval

import (
	"strings"

	"github.com/birchdb/birch/pkg/util/berr"
)

// The interval evaluation tree is a shadow trace of bounds construction:
// every union, intersect, complement, const and eval the translator
// performs is recorded, in the same order as the primary computation. Plans
// parameterized on literal values can be cached keyed on the tree's shape
// and replayed deterministically.

// IETNode is one node of the trace.
type IETNode interface {
	shape(sb *strings.Builder)
}

// IETConst records bounds that never re-parameterize (null/array special
// cases, internal expr comparisons, full-domain scans).
type IETConst struct {
	Bounds OrderedIntervalList
}

// IETEval records bounds derived from a predicate operator and its operand
// slot; the operand value itself stays out of the shape.
type IETEval struct {
	Op     string
	Bounds OrderedIntervalList
}

// IETUnion records a union of its two children's bounds.
type IETUnion struct {
	Left, Right IETNode
}

// IETIntersect records an intersection of its two children's bounds.
type IETIntersect struct {
	Left, Right IETNode
}

// IETComplement records complementation of its child's bounds.
type IETComplement struct {
	Child IETNode
}

func (n *IETConst) shape(sb *strings.Builder) {
	sb.WriteString("const")
}

func (n *IETEval) shape(sb *strings.Builder) {
	sb.WriteString("eval(")
	sb.WriteString(n.Op)
	sb.WriteByte(')')
}

func (n *IETUnion) shape(sb *strings.Builder) {
	sb.WriteString("union(")
	n.Left.shape(sb)
	sb.WriteByte(',')
	n.Right.shape(sb)
	sb.WriteByte(')')
}

func (n *IETIntersect) shape(sb *strings.Builder) {
	sb.WriteString("intersect(")
	n.Left.shape(sb)
	sb.WriteByte(',')
	n.Right.shape(sb)
	sb.WriteByte(')')
}

func (n *IETComplement) shape(sb *strings.Builder) {
	sb.WriteString("complement(")
	n.Child.shape(sb)
	sb.WriteByte(')')
}

// Shape renders a node's structure as a canonical string, independent of
// the literal values inside.
func Shape(n IETNode) string {
	var sb strings.Builder
	n.shape(&sb)
	return sb.String()
}

// IETBuilder assembles the trace as a stack machine: leaves push, combining
// operations pop their operands and push the combined node. A nil
// *IETBuilder may be passed anywhere one is accepted; callers guard their
// notifications.
type IETBuilder struct {
	stack []IETNode
}

// AddConst pushes a constant-bounds leaf.
func (b *IETBuilder) AddConst(oil OrderedIntervalList) {
	b.stack = append(b.stack, &IETConst{Bounds: oil.Clone()})
}

// AddEval pushes an operator-evaluation leaf.
func (b *IETBuilder) AddEval(op string, oil OrderedIntervalList) {
	b.stack = append(b.stack, &IETEval{Op: op, Bounds: oil.Clone()})
}

// AddUnion combines the top two nodes as a union.
func (b *IETBuilder) AddUnion() {
	l, r := b.pop2()
	b.stack = append(b.stack, &IETUnion{Left: l, Right: r})
}

// AddIntersect combines the top two nodes as an intersection.
func (b *IETBuilder) AddIntersect() {
	l, r := b.pop2()
	b.stack = append(b.stack, &IETIntersect{Left: l, Right: r})
}

// AddComplement wraps the top node in a complement.
func (b *IETBuilder) AddComplement() {
	berr.Invariant(len(b.stack) >= 1, "complement on empty IET stack")
	child := b.stack[len(b.stack)-1]
	b.stack[len(b.stack)-1] = &IETComplement{Child: child}
}

// Done returns the finished tree. The trace is complete only when exactly
// one node remains.
func (b *IETBuilder) Done() (IETNode, bool) {
	if len(b.stack) != 1 {
		return nil, false
	}
	return b.stack[0], true
}

func (b *IETBuilder) pop2() (IETNode, IETNode) {
	berr.Invariant(len(b.stack) >= 2, "binary IET operation needs two operands, have %d", len(b.stack))
	r := b.stack[len(b.stack)-1]
	l := b.stack[len(b.stack)-2]
	b.stack = b.stack[:len(b.stack)-2]
	return l, r
}
