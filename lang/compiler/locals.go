package compiler

import "github.com/mna/dynac/lang/token"

// parseVariable consumes an identifier, declares it if inside a local
// scope, and returns the byte operand to use with DefineGlobal: the
// constant-pool index of its name for a global, or 0 (unused) for a local.
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(token.IDENT, errMsg)

	c.declareVariable()
	if c.unit.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.prev.Lexeme)
}

func (c *Compiler) identifierConstant(name string) byte {
	return c.makeConstant(c.mgr.InternString(name))
}

// declareVariable adds the just-consumed identifier to the current unit's
// locals table. It is a no-op at global scope, where variables are looked
// up by name in the globals table instead.
func (c *Compiler) declareVariable() {
	if c.unit.scopeDepth == 0 {
		return
	}
	name := c.prev.Lexeme
	for i := len(c.unit.locals) - 1; i >= 0; i-- {
		l := c.unit.locals[i]
		if l.depth != -1 && l.depth < c.unit.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if len(c.unit.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.unit.locals = append(c.unit.locals, local{name: name, depth: -1})
}

// markInitialized marks the most recently declared local as usable, i.e.
// sets its depth from the sentinel -1 to the current scope depth. Globals
// have no locals-table entry and are never marked this way.
func (c *Compiler) markInitialized() {
	if c.unit.scopeDepth == 0 {
		return
	}
	c.unit.locals[len(c.unit.locals)-1].depth = c.unit.scopeDepth
}

// defineVariable emits the bytecode that makes a just-compiled initializer
// value available under the variable declared by parseVariable.
func (c *Compiler) defineVariable(global byte) {
	if c.unit.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(DEFINE_GLOBAL, global)
}

// resolveLocal searches u's locals table from the end (innermost first) for
// name, returning its slot index, or -1 if not found. It reports an error
// if the match is still being initialized (its own initializer referencing
// itself, e.g. `var x = x;`).
func (c *Compiler) resolveLocal(u *unit, name string) int {
	for i := len(u.locals) - 1; i >= 0; i-- {
		if u.locals[i].name == name {
			if u.locals[i].depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue searches enclosing units for name, adding an upvalue
// entry to every intervening unit so the variable can be reached from u. It
// returns the upvalue index in u, or -1 if name is not a local anywhere in
// the enclosing chain (in which case it must be a global).
func (c *Compiler) resolveUpvalue(u *unit, name string) int {
	if u.enclosing == nil {
		return -1
	}
	if local := c.resolveLocal(u.enclosing, name); local != -1 {
		u.enclosing.locals[local].captured = true
		return c.addUpvalue(u, uint8(local), true)
	}
	if up := c.resolveUpvalue(u.enclosing, name); up != -1 {
		return c.addUpvalue(u, uint8(up), false)
	}
	return -1
}

// addUpvalue appends an upvalue entry to u, reusing an existing one that
// already refers to the same slot rather than duplicating it.
func (c *Compiler) addUpvalue(u *unit, index uint8, isLocal bool) int {
	for i, uv := range u.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(u.upvalues) >= maxLocals {
		c.error("Too many closure variables in function.")
		return 0
	}
	u.upvalues = append(u.upvalues, upvalueRef{index: index, isLocal: isLocal})
	return len(u.upvalues) - 1
}
