// Package compiler implements the single-pass Pratt compiler: it consumes
// the scanner's token stream and emits bytecode directly into a chunk, with
// no intermediate syntax tree. Local and upvalue resolution, control-flow
// jump patching, and closure emission all happen while parsing.
package compiler

import (
	"fmt"
	"io"

	"github.com/mna/dynac/lang/objmanager"
	"github.com/mna/dynac/lang/scanner"
	"github.com/mna/dynac/lang/token"
	"github.com/mna/dynac/lang/types"
)

const maxLocals = 256

// funcKind distinguishes the implicit top-level script function from a
// function declared with fn. A return statement is a compile error in the
// script function; in both kinds a bare return and the implicit end-of-body
// return produce nil.
type funcKind int

const (
	kindScript funcKind = iota
	kindFunction
)

type local struct {
	name     string
	depth    int // -1 while being initialized
	captured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// unit is the compiler's per-function state: the function being assembled,
// its locals and upvalues, and the lexical scope depth. Units form a stack
// via enclosing, one per nested fn currently being compiled.
type unit struct {
	enclosing *unit
	fn        *types.ObjFunction
	kind      funcKind

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// Compiler turns source text into a top-level function ready for the
// machine to call. A Compiler is single-use: call Compile once per source.
type Compiler struct {
	mgr    *objmanager.Manager
	sc     scanner.Scanner
	cur    scanner.Tok
	prev   scanner.Tok
	unit   *unit
	stderr io.Writer

	errs      token.ErrorList
	hadError  bool
	panicMode bool
}

// New returns a compiler that allocates heap objects (the function and any
// string constants) through mgr and reports diagnostics to stderr.
func New(mgr *objmanager.Manager, stderr io.Writer) *Compiler {
	return &Compiler{mgr: mgr, stderr: stderr}
}

// Compile compiles src as a complete program and returns the resulting
// top-level function. The second result is false if any compile error was
// reported, in which case the returned function must be discarded.
func (c *Compiler) Compile(src string) (*types.ObjFunction, bool) {
	c.sc.Init(src)
	c.errs.Reset()
	c.hadError = false
	c.panicMode = false
	c.pushUnit(kindScript, "")

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	fn := c.endUnit()

	if c.hadError {
		c.errs.Sort()
		if c.stderr != nil {
			fmt.Fprintln(c.stderr, c.errs.Error())
		}
	}
	return fn, !c.hadError
}

func (c *Compiler) pushUnit(kind funcKind, name string) {
	fn := c.mgr.AllocFunction()
	if name != "" {
		fn.Name = c.mgr.InternString(name)
	}
	u := &unit{enclosing: c.unit, fn: fn, kind: kind}
	// Slot 0 of every frame is reserved for the called function/closure
	// itself, so it is never available as a user local.
	u.locals = append(u.locals, local{name: "", depth: 0})
	c.unit = u
}

func (c *Compiler) endUnit() *types.ObjFunction {
	c.emitReturn()
	fn := c.unit.fn
	fn.UpvalueCount = len(c.unit.upvalues)
	c.unit = c.unit.enclosing
	return fn
}

// --- token stream -----------------------------------------------------

func (c *Compiler) advance() {
	c.prev = c.cur
	for {
		c.cur = c.sc.ScanToken()
		if c.cur.Kind != token.ILLEGAL {
			break
		}
		c.errorAtCurrent(c.cur.Lexeme)
	}
}

func (c *Compiler) check(k token.Token) bool { return c.cur.Kind == k }

func (c *Compiler) match(k token.Token) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Token, msg string) {
	if c.cur.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

// --- error reporting and panic-mode recovery ---------------------------

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.cur, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.prev, msg) }

func (c *Compiler) errorAt(tok scanner.Tok, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = "at end"
	}
	c.errs.Add(tok.Line, fmt.Sprintf("%s: %s", where, msg))
}

// synchronize skips tokens until a likely statement boundary, so that one
// error does not cascade into a flood of spurious follow-on errors.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.cur.Kind != token.EOF {
		if c.prev.Kind == token.SEMI {
			return
		}
		switch c.cur.Kind {
		case token.CLASS, token.FN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// --- bytecode emission --------------------------------------------------

func (c *Compiler) chunk() *types.Chunk { return &c.unit.fn.Chunk }

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.prev.Line)
}

func (c *Compiler) emitOp(op Opcode) { c.emitByte(byte(op)) }

func (c *Compiler) emitOps(op1, op2 Opcode) {
	c.emitOp(op1)
	c.emitOp(op2)
}

func (c *Compiler) emitOpByte(op Opcode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

func (c *Compiler) emitConstant(v types.Value) {
	idx := c.makeConstant(v)
	c.emitOpByte(CONSTANT, idx)
}

func (c *Compiler) makeConstant(v types.Value) byte {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitReturn() {
	c.emitOp(NIL)
	c.emitOp(RETURN)
}

// emitJump writes op followed by a two-byte placeholder and returns the
// offset of the first placeholder byte, to be patched later by patchJump.
func (c *Compiler) emitJump(op Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

// patchJump backfills the two-byte placeholder at offset with the
// big-endian distance from just past the placeholder to the current end of
// code.
func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

// emitLoop writes a Loop instruction that jumps backward to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(LOOP)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// --- declarations and statements ---------------------------------------

func (c *Compiler) declaration() {
	switch {
	case c.match(token.FN):
		c.fnDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMI, "Expect ';' after value.")
	c.emitOp(PRINT)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMI, "Expect ';' after expression.")
	c.emitOp(POP)
}

func (c *Compiler) block() {
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBRACE, "Expect '}' after block.")
}

func (c *Compiler) beginScope() { c.unit.scopeDepth++ }

func (c *Compiler) endScope() {
	c.unit.scopeDepth--
	locals := c.unit.locals
	for len(locals) > 0 && locals[len(locals)-1].depth > c.unit.scopeDepth {
		if locals[len(locals)-1].captured {
			c.emitOp(CLOSE_UPVALUE)
		} else {
			c.emitOp(POP)
		}
		locals = locals[:len(locals)-1]
	}
	c.unit.locals = locals
}

func (c *Compiler) ifStatement() {
	c.consume(token.LPAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(JUMP_IF_FALSE)
	c.emitOp(POP)
	c.statement()

	elseJump := c.emitJump(JUMP)
	c.patchJump(thenJump)
	c.emitOp(POP)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.consume(token.LPAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(JUMP_IF_FALSE)
	c.emitOp(POP)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(POP)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LPAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMI):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.match(token.SEMI) {
		c.expression()
		c.consume(token.SEMI, "Expect ';' after loop condition.")
		exitJump = c.emitJump(JUMP_IF_FALSE)
		c.emitOp(POP)
	}

	if !c.match(token.RPAREN) {
		bodyJump := c.emitJump(JUMP)
		incrStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(POP)
		c.consume(token.RPAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(POP)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.unit.kind == kindScript {
		c.error("Can't return from top-level code.")
	}
	if c.match(token.SEMI) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMI, "Expect ';' after return value.")
	c.emitOp(RETURN)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(NIL)
	}
	c.consume(token.SEMI, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// fnDeclaration compiles `fn name(params) { body }`. The name is declared
// as a variable in the enclosing unit before the body is compiled, so a
// function can call itself recursively.
func (c *Compiler) fnDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function(kindFunction)
	c.defineVariable(global)
}

func (c *Compiler) function(kind funcKind) {
	name := c.prev.Lexeme
	c.pushUnit(kind, name)
	c.beginScope()

	c.consume(token.LPAREN, "Expect '(' after function name.")
	if !c.check(token.RPAREN) {
		for {
			c.unit.fn.Arity++
			if c.unit.fn.Arity > 255 {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := c.parseVariable("Expect parameter name.")
			c.defineVariable(constant)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after parameters.")
	c.consume(token.LBRACE, "Expect '{' before function body.")
	c.block()

	childUpvalues := c.unit.upvalues // read before endUnit pops back to the enclosing unit
	fn := c.endUnit()

	constant := c.makeConstant(fn)
	c.emitOpByte(CLOSURE, constant)
	for _, uv := range childUpvalues {
		c.emitByte(b2u(uv.isLocal))
		c.emitByte(uv.index)
	}
}

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}
