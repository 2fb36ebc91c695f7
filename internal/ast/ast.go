// Package ast defines the AST node shapes the type-inference core
// consumes. The parser and doc-comment parser that produce these nodes
// are external collaborators; this package only fixes the contract:
// every node a declaration or expression walk needs, plus the slots
// (JSType, qualified name) the core decorates as it runs.
package ast

import (
	"github.com/nuxleus/closure-compiler/internal/token"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Node is the base interface for every AST node.
type Node interface {
	GetToken() token.Token
	Accept(v Visitor)
}

// Statement is a Node that appears in a block's statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that yields a value and carries a decorated type.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(types.Type)
	GetQualifiedName() string
	SetQualifiedName(string)
}

// exprBase is embedded by every concrete expression to supply the JSType
// and qualified-name slots without repeating the bookkeeping in each type.
type exprBase struct {
	Token         token.Token
	Type          types.Type
	QualifiedName string
}

func (e *exprBase) expressionNode()              {}
func (e *exprBase) GetToken() token.Token         { return e.Token }
func (e *exprBase) GetType() types.Type           { return e.Type }
func (e *exprBase) SetType(t types.Type)          { e.Type = t }
func (e *exprBase) GetQualifiedName() string      { return e.QualifiedName }
func (e *exprBase) SetQualifiedName(n string)     { e.QualifiedName = n }

// Visitor dispatches on concrete node type. The scope creator and inference
// engine each implement it (or a type switch that mirrors it); see
// internal/typedscope and internal/inference.
type Visitor interface {
	VisitProgram(n *Program)
	VisitVarStatement(n *VarStatement)
	VisitFunctionStatement(n *FunctionStatement)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitBlockStatement(n *BlockStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitIfStatement(n *IfStatement)
	VisitForStatement(n *ForStatement)
	VisitWhileStatement(n *WhileStatement)

	VisitIdentifier(n *Identifier)
	VisitThisExpression(n *ThisExpression)
	VisitNumberLiteral(n *NumberLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitVoidLiteral(n *VoidLiteral)
	VisitFunctionLiteral(n *FunctionLiteral)
	VisitObjectLiteral(n *ObjectLiteral)
	VisitMemberExpression(n *MemberExpression)
	VisitCallExpression(n *CallExpression)
	VisitNewExpression(n *NewExpression)
	VisitAssignmentExpression(n *AssignmentExpression)
	VisitBinaryExpression(n *BinaryExpression)
	VisitLogicalExpression(n *LogicalExpression)
	VisitUnaryExpression(n *UnaryExpression)
}

// Program is the root of a single file's AST.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// VarStatement is `var Name = Value;` (Value may be nil for a plain
// declaration) or the bare-reference stub form `/** @type T */ x.y;` is
// represented instead as an ExpressionStatement wrapping a MemberExpression
// with no assignment — see the typed scope creator's stub handling.
type VarStatement struct {
	Tok   token.Token
	Name  *Identifier
	Value Expression
	Doc   *DocInfo
}

func (s *VarStatement) statementNode()       {}
func (s *VarStatement) GetToken() token.Token { return s.Tok }
func (s *VarStatement) Accept(v Visitor)      { v.VisitVarStatement(s) }

// FunctionStatement is `function Name(params) { body }` at statement
// position, the shape the scope creator recognizes for `@constructor` /
// `@interface` declarations.
type FunctionStatement struct {
	Tok    token.Token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
	Doc    *DocInfo
}

func (s *FunctionStatement) statementNode()       {}
func (s *FunctionStatement) GetToken() token.Token { return s.Tok }
func (s *FunctionStatement) Accept(v Visitor)      { v.VisitFunctionStatement(s) }

// ExpressionStatement is a bare expression used as a statement: ordinary
// call/assignment statements, but also the three doc-comment-driven forms
// the scope creator recognizes on an assignment or bare reference —
// `F.prototype.m = ...`, `this.x = ...`, and the stub `/** @type T */
// x.y;` — so Doc carries whatever annotation preceded the statement, nil
// for the common undecorated case.
type ExpressionStatement struct {
	Tok  token.Token
	Expr Expression
	Doc  *DocInfo
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) GetToken() token.Token { return s.Tok }
func (s *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(s) }

type BlockStatement struct {
	Tok        token.Token
	Statements []Statement
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) GetToken() token.Token { return s.Tok }
func (s *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(s) }

type ReturnStatement struct {
	Tok   token.Token
	Value Expression
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) GetToken() token.Token { return s.Tok }
func (s *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(s) }

type IfStatement struct {
	Tok         token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement or *IfStatement (else-if chain), may be nil
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) GetToken() token.Token { return s.Tok }
func (s *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(s) }

type ForStatement struct {
	Tok    token.Token
	Init   Statement // typically *VarStatement or *ExpressionStatement, may be nil
	Test   Expression
	Update Expression
	Body   *BlockStatement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) GetToken() token.Token { return s.Tok }
func (s *ForStatement) Accept(v Visitor)      { v.VisitForStatement(s) }

type WhileStatement struct {
	Tok  token.Token
	Test Expression
	Body *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) GetToken() token.Token { return s.Tok }
func (s *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(s) }
