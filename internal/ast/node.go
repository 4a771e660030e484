package ast

import "fmt"

// NodeKind is the syntax category of a Node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeModule
	NodeDecl
	NodeStmt
	NodeExpr
)

func (k NodeKind) String() string {
	switch k {
	case NodeModule:
		return "module"
	case NodeDecl:
		return "decl"
	case NodeStmt:
		return "stmt"
	case NodeExpr:
		return "expr"
	default:
		return "invalid"
	}
}

// Node is the identity of a syntax tree node: its category plus its arena
// index. Nodes are comparable and serve as map keys.
type Node struct {
	Kind NodeKind
	ID   uint32
}

// NoNode is the zero Node.
var NoNode = Node{}

func ModuleNode(id ModuleID) Node { return Node{Kind: NodeModule, ID: uint32(id)} }
func DeclNode(id DeclID) Node     { return Node{Kind: NodeDecl, ID: uint32(id)} }
func StmtNode(id StmtID) Node     { return Node{Kind: NodeStmt, ID: uint32(id)} }
func ExprNode(id ExprID) Node     { return Node{Kind: NodeExpr, ID: uint32(id)} }

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.Kind != NodeInvalid && n.ID != 0 }

func (n Node) String() string {
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}
