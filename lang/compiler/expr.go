package compiler

import (
	"strconv"

	"github.com/mna/dynac/lang/token"
	"github.com/mna/dynac/lang/types"
)

// Precedence orders binding strength from weakest to strongest, matching
// the grammar's precedence climb.
type Precedence int

const (
	precNone       Precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LPAREN: {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall},
		token.MINUS:  {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
		token.PLUS:   {infix: (*Compiler).binary, precedence: precTerm},
		token.SLASH:  {infix: (*Compiler).binary, precedence: precFactor},
		token.STAR:   {infix: (*Compiler).binary, precedence: precFactor},
		token.BANG:   {prefix: (*Compiler).unary},
		token.BANG_EQ: {infix: (*Compiler).binary, precedence: precEquality},
		token.EQ_EQ:  {infix: (*Compiler).binary, precedence: precEquality},
		token.GT:     {infix: (*Compiler).binary, precedence: precComparison},
		token.GE:     {infix: (*Compiler).binary, precedence: precComparison},
		token.LT:     {infix: (*Compiler).binary, precedence: precComparison},
		token.LE:     {infix: (*Compiler).binary, precedence: precComparison},
		token.IDENT:  {prefix: (*Compiler).variable},
		token.STRING: {prefix: (*Compiler).string},
		token.NUMBER: {prefix: (*Compiler).number},
		token.AND:    {infix: (*Compiler).and, precedence: precAnd},
		token.OR:     {infix: (*Compiler).or, precedence: precOr},
		token.FALSE:  {prefix: (*Compiler).literal},
		token.TRUE:   {prefix: (*Compiler).literal},
		token.NIL:    {prefix: (*Compiler).literal},
	}
}

func ruleFor(k token.Token) parseRule { return rules[k] }

func (c *Compiler) expression() { c.parsePrecedence(precAssignment) }

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := ruleFor(c.prev.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefix(c, canAssign)

	for prec <= ruleFor(c.cur.Kind).precedence {
		c.advance()
		infix := ruleFor(c.prev.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQ) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(_ bool) {
	v, err := strconv.ParseFloat(c.prev.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(types.Number(v))
}

func (c *Compiler) string(_ bool) {
	// Lexeme includes the surrounding double quotes.
	content := c.prev.Lexeme[1 : len(c.prev.Lexeme)-1]
	c.emitConstant(c.mgr.InternString(content))
}

func (c *Compiler) literal(_ bool) {
	switch c.prev.Kind {
	case token.FALSE:
		c.emitOp(FALSE)
	case token.TRUE:
		c.emitOp(TRUE)
	case token.NIL:
		c.emitOp(NIL)
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	op := c.prev.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.BANG:
		c.emitOp(NOT)
	case token.MINUS:
		c.emitOp(NEGATE)
	}
}

func (c *Compiler) binary(_ bool) {
	op := c.prev.Kind
	rule := ruleFor(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case token.BANG_EQ:
		c.emitOps(EQUAL, NOT)
	case token.EQ_EQ:
		c.emitOp(EQUAL)
	case token.GT:
		c.emitOp(GREATER)
	case token.GE:
		c.emitOps(LESS, NOT)
	case token.LT:
		c.emitOp(LESS)
	case token.LE:
		c.emitOps(GREATER, NOT)
	case token.PLUS:
		c.emitOp(ADD)
	case token.MINUS:
		c.emitOp(SUBTRACT)
	case token.STAR:
		c.emitOp(MULTIPLY)
	case token.SLASH:
		c.emitOp(DIVIDE)
	}
}

// and compiles the short-circuiting right operand of a already-parsed left
// operand: if the left is falsey, skip the right and leave it on the stack.
func (c *Compiler) and(_ bool) {
	endJump := c.emitJump(JUMP_IF_FALSE)
	c.emitOp(POP)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

// or is and's mirror image: if the left is truthy, skip the right.
func (c *Compiler) or(_ bool) {
	elseJump := c.emitJump(JUMP_IF_FALSE)
	endJump := c.emitJump(JUMP)

	c.patchJump(elseJump)
	c.emitOp(POP)

	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.prev.Lexeme, canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp Opcode
	var arg int

	if slot := c.resolveLocal(c.unit, name); slot != -1 {
		getOp, setOp, arg = GET_LOCAL, SET_LOCAL, slot
	} else if slot := c.resolveUpvalue(c.unit, name); slot != -1 {
		getOp, setOp, arg = GET_UPVALUE, SET_UPVALUE, slot
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = GET_GLOBAL, SET_GLOBAL
	}

	if canAssign && c.match(token.EQ) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}

func (c *Compiler) call(_ bool) {
	argc := c.argumentList()
	c.emitOpByte(CALL, argc)
}

func (c *Compiler) argumentList() byte {
	var argc int
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			if argc == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			argc++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after arguments.")
	return byte(argc)
}
