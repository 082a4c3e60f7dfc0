package ride

import (
	"github.com/wavesplatform/txdiff/pkg/settings"
)

// Node is a node of an already-compiled, already-type-checked expression
// tree. The engine never parses script sources.
type Node interface {
	node()
	SetBlock(node Node)
}

type LongNode struct {
	Value int64
}

func (*LongNode) node() {}

func (*LongNode) SetBlock(Node) {}

func NewLongNode(v int64) *LongNode {
	return &LongNode{Value: v}
}

type BytesNode struct {
	Value []byte
}

func (*BytesNode) node() {}

func (*BytesNode) SetBlock(Node) {}

func NewBytesNode(v []byte) *BytesNode {
	return &BytesNode{Value: v}
}

type StringNode struct {
	Value string
}

func (*StringNode) node() {}

func (*StringNode) SetBlock(Node) {}

func NewStringNode(v string) *StringNode {
	return &StringNode{Value: v}
}

type BooleanNode struct {
	Value bool
}

func (*BooleanNode) node() {}

func (*BooleanNode) SetBlock(Node) {}

func NewBooleanNode(v bool) *BooleanNode {
	return &BooleanNode{Value: v}
}

type ConditionalNode struct {
	Condition       Node
	TrueExpression  Node
	FalseExpression Node
}

func (*ConditionalNode) node() {}

func (*ConditionalNode) SetBlock(Node) {}

func NewConditionalNode(condition, trueExpression, falseExpression Node) *ConditionalNode {
	return &ConditionalNode{
		Condition:       condition,
		TrueExpression:  trueExpression,
		FalseExpression: falseExpression,
	}
}

// AssignmentNode is a let binding followed by the block it scopes over.
type AssignmentNode struct {
	Name       string
	Expression Node
	Block      Node
}

func (*AssignmentNode) node() {}

func (a *AssignmentNode) SetBlock(node Node) {
	a.Block = node
}

func NewAssignmentNode(name string, expression, block Node) *AssignmentNode {
	return &AssignmentNode{
		Name:       name,
		Expression: expression,
		Block:      block,
	}
}

type ReferenceNode struct {
	Name string
}

func (*ReferenceNode) node() {}

func (*ReferenceNode) SetBlock(Node) {}

func NewReferenceNode(name string) *ReferenceNode {
	return &ReferenceNode{Name: name}
}

type FunctionDeclarationNode struct {
	Name                string
	Arguments           []string
	Body                Node
	Block               Node
	InvocationParameter string
}

func (*FunctionDeclarationNode) node() {}

func (n *FunctionDeclarationNode) SetBlock(node Node) {
	n.Block = node
}

func NewFunctionDeclarationNode(name string, arguments []string, body, block Node) *FunctionDeclarationNode {
	return &FunctionDeclarationNode{
		Name:      name,
		Arguments: arguments,
		Body:      body,
		Block:     block,
	}
}

// Function is a call header: either a built-in identified by a stable
// numeric id or a user function identified by name.
type Function interface {
	Name() string
	function()
}

type NativeFunction uint16

func (f NativeFunction) Name() string {
	return nativeFunctionName(uint16(f))
}

func (NativeFunction) function() {}

type UserFunction string

func (f UserFunction) Name() string {
	return string(f)
}

func (UserFunction) function() {}

type FunctionCallNode struct {
	Function  Function
	Arguments []Node
}

func (*FunctionCallNode) node() {}

func (*FunctionCallNode) SetBlock(Node) {}

func NewFunctionCallNode(function Function, arguments []Node) *FunctionCallNode {
	return &FunctionCallNode{
		Function:  function,
		Arguments: arguments,
	}
}

type PropertyNode struct {
	Name   string
	Object Node
}

func (*PropertyNode) node() {}

func (*PropertyNode) SetBlock(Node) {}

func NewPropertyNode(name string, object Node) *PropertyNode {
	return &PropertyNode{
		Name:   name,
		Object: object,
	}
}

// Tree is a compiled account script. A dApp tree has declarations, named
// callables and an optional verifier function; an expression tree has only
// the verifier expression.
type Tree struct {
	LibVersion      settings.StdLibVersion
	IsDApp          bool
	AllowReentrancy bool
	Declarations    []Node
	Functions       []Node
	Verifier        Node
}

func (t *Tree) HasVerifier() bool {
	return t.Verifier != nil
}

func (t *Tree) FunctionByName(name string) (*FunctionDeclarationNode, error) {
	for _, f := range t.Functions {
		fn, ok := f.(*FunctionDeclarationNode)
		if !ok {
			return nil, RuntimeError.New("invalid callable declaration")
		}
		if fn.Name == name {
			return fn, nil
		}
	}
	return nil, RuntimeError.Errorf("function '%s' not found", name)
}
