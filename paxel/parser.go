package paxel

import (
	"strconv"
	"strings"
)

// UnresolvedIdent is a parse-time placeholder for an identifier (possibly
// with a qualified `Scope::fn` prefix or a `foo.bar.baz` field path). A
// compile-time Resolve pass turns every UnresolvedIdent into an Ident
// carrying a fixed InvocationSpec before the AST is
// ever evaluated.
type UnresolvedIdent struct {
	Root string
	Path []string
}

func (n UnresolvedIdent) Eval(ExpressionContext) (Value, error) {
	return Value{}, &ParseError{Kind: "unresolved", Span: n.Root}
}

// parser implements a Pratt (precedence-climbing) parser over the token
// stream produced by Tokenize. Precedence, low to high:
//
//	ternary > logical(&&,||) > additive(+,-) > multi(*,/) > modulo(%)
//	> exponent(^, right-assoc) > unary(-) > relational > unary(!)
//
// Note the table is not a simple ladder: unary `-` binds *tighter* than
// exponent but *looser* than relational, and unary `!` binds tightest of
// all. This parser implements that exact, non-monotonic ladder rather than
// a conventional language's precedence order, because compiled cartridges
// bake the original ordering in.
type parser struct {
	toks []Token
	pos  int
}

// Parse parses a complete PAXEL expression from source.
func Parse(src string) (Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, &ParseError{Kind: "trailing-input", Span: p.peek().Value}
	}
	return e, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() Token {
	if p.atEnd() {
		return Token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) match(kind, value string) bool {
	t := p.peek()
	if t.Kind == kind && (value == "" || t.Value == value) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind, value string) (Token, error) {
	t := p.peek()
	if t.Kind != kind || (value != "" && t.Value != value) {
		return Token{}, &ParseError{Kind: "expected " + kind + " " + value, Span: t.Value}
	}
	p.pos++
	return t, nil
}

// parseTernary: `cond then a else b`, right-associative on else.
func (p *parser) parseTernary() (Expr, error) {
	cond, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if p.match("Keyword", "then") {
		thenE, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("Keyword", "else"); err != nil {
			return nil, err
		}
		elseE, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return Ternary{Cond: cond, Then: thenE, Else: elseE}, nil
	}
	return cond, nil
}

func (p *parser) parseLogical() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == "Op" && (p.peek().Value == "&&" || p.peek().Value == "||") {
		op := p.next().Value
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMulti()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == "Op" && (p.peek().Value == "+" || p.peek().Value == "-") {
		op := p.next().Value
		right, err := p.parseMulti()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseMulti() (Expr, error) {
	left, err := p.parseModulo()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == "Op" && (p.peek().Value == "*" || p.peek().Value == "/") {
		op := p.next().Value
		right, err := p.parseModulo()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseModulo() (Expr, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == "Op" && p.peek().Value == "%" {
		p.next()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: "%", L: left, R: right}
	}
	return left, nil
}

// parseExponent is right-associative.
func (p *parser) parseExponent() (Expr, error) {
	left, err := p.parseUnaryMinus()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind == "Op" && p.peek().Value == "^" {
		p.next()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return Binary{Op: "^", L: left, R: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnaryMinus() (Expr, error) {
	if p.peek().Kind == "Op" && p.peek().Value == "-" {
		p.next()
		x, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		return Unary{Op: "-", X: x}, nil
	}
	return p.parseRelational()
}

func (p *parser) parseRelational() (Expr, error) {
	left, err := p.parseUnaryNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == "Op" {
		v := p.peek().Value
		if v == "==" || v == "!=" || v == "<" || v == "<=" || v == ">" || v == ">=" {
			p.next()
			right, err := p.parseUnaryNot()
			if err != nil {
				return nil, err
			}
			left = Binary{Op: v, L: left, R: right}
			continue
		}
		break
	}
	return left, nil
}

func (p *parser) parseUnaryNot() (Expr, error) {
	if p.peek().Kind == "Op" && p.peek().Value == "!" {
		p.next()
		x, err := p.parseUnaryNot()
		if err != nil {
			return nil, err
		}
		return Unary{Op: "!", X: x}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary via parsePrimary, then applies any trailing
// `..` range and `[i]` index access.
func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().Kind == "Range":
			p.next()
			to, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			e = RangeLit{From: e, To: to}
		case p.peek().Kind == "Punct" && p.peek().Value == "[":
			p.next()
			idxTok, err := p.expect("Number", "")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect("Punct", "]"); err != nil {
				return nil, err
			}
			idx, _ := strconv.ParseInt(idxTok.Value, 10, 64)
			e = Access{Base: e, Index: idx}
		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.peek()
	switch {
	case t.Kind == "Number":
		p.next()
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, &ParseError{Kind: "number", Span: t.Value}
		}
		return p.maybeUnit(Literal{Val: Num(f)})
	case t.Kind == "String":
		p.next()
		unquoted, err := strconv.Unquote(t.Value)
		if err != nil {
			unquoted = strings.Trim(t.Value, `"`)
		}
		return Literal{Val: Str(unquoted)}, nil
	case t.Kind == "Keyword" && t.Value == "true":
		p.next()
		return Literal{Val: Bool(true)}, nil
	case t.Kind == "Keyword" && t.Value == "false":
		p.next()
		return Literal{Val: Bool(false)}, nil
	case t.Kind == "Punct" && t.Value == "(":
		return p.parseGroupedOrTuple()
	case t.Kind == "Punct" && t.Value == "[":
		return p.parseList()
	case t.Kind == "Punct" && t.Value == "{":
		return p.parseObject()
	case t.Kind == "Ident":
		return p.parseIdentOrCall()
	default:
		return nil, &ParseError{Kind: "unexpected-token", Span: t.Value}
	}
}

// maybeUnit consumes a trailing unit suffix token after a parenthesized or
// bare numeric literal (`px`, `%`, `deg`, `rad`).
func (p *parser) maybeUnit(inner Expr) (Expr, error) {
	t := p.peek()
	if t.Kind == "Ident" && (t.Value == "px" || t.Value == "deg" || t.Value == "rad") {
		p.next()
		return Grouped{Inner: inner, Unit: t.Value}, nil
	}
	if t.Kind == "Op" && t.Value == "%" {
		p.next()
		return Grouped{Inner: inner, Unit: "%"}, nil
	}
	return inner, nil
}

func (p *parser) parseGroupedOrTuple() (Expr, error) {
	p.next() // consume "("
	var items []Expr
	for {
		if p.peek().Kind == "Punct" && p.peek().Value == ")" {
			break
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.match("Punct", ",") {
			continue
		}
		break
	}
	if _, err := p.expect("Punct", ")"); err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return p.maybeUnit(Grouped{Inner: items[0]})
	}
	return TupleLit{Items: items}, nil
}

func (p *parser) parseList() (Expr, error) {
	p.next() // consume "["
	var items []Expr
	for {
		if p.peek().Kind == "Punct" && p.peek().Value == "]" {
			break
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.match("Punct", ",") {
			continue
		}
		break
	}
	if _, err := p.expect("Punct", "]"); err != nil {
		return nil, err
	}
	return ListLit{Items: items}, nil
}

func (p *parser) parseObject() (Expr, error) {
	p.next() // consume "{"
	fields := map[string]Expr{}
	for {
		if p.peek().Kind == "Punct" && p.peek().Value == "}" {
			break
		}
		key, err := p.expect("Ident", "")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect("Punct", ":"); err != nil {
			return nil, err
		}
		val, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		fields[key.Value] = val
		if p.match("Punct", ",") {
			continue
		}
		break
	}
	if _, err := p.expect("Punct", "}"); err != nil {
		return nil, err
	}
	return ObjectLit{Fields: fields}, nil
}

// parseIdentOrCall parses `name`, `a.b.c`, `Scope::fn(args)`, or `fn(args)`.
func (p *parser) parseIdentOrCall() (Expr, error) {
	root := p.next().Value
	scope := ""
	name := root
	if p.peek().Kind == "Op" && p.peek().Value == "::" {
		p.next()
		scope = root
		nameTok, err := p.expect("Ident", "")
		if err != nil {
			return nil, err
		}
		name = nameTok.Value
	}
	if p.peek().Kind == "Punct" && p.peek().Value == "(" {
		p.next()
		var args []Expr
		for {
			if p.peek().Kind == "Punct" && p.peek().Value == ")" {
				break
			}
			a, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.match("Punct", ",") {
				continue
			}
			break
		}
		if _, err := p.expect("Punct", ")"); err != nil {
			return nil, err
		}
		if scope == "" {
			scope = "Global"
		}
		return Call{Scope: scope, Name: name, Args: args}, nil
	}

	path := []string{root}
	for p.peek().Kind == "Op" && p.peek().Value == "." {
		p.next()
		field, err := p.expect("Ident", "")
		if err != nil {
			return nil, err
		}
		path = append(path, field.Value)
	}
	return UnresolvedIdent{Root: root, Path: path}, nil
}

// Resolve walks expr, replacing every UnresolvedIdent with an Ident bound
// to a compile-time InvocationSpec produced by resolve. After Resolve runs,
// evaluation never performs dynamic name lookup.
func Resolve(expr Expr, resolve func(root string, path []string) (InvocationSpec, error)) (Expr, error) {
	switch n := expr.(type) {
	case UnresolvedIdent:
		spec, err := resolve(n.Root, n.Path)
		if err != nil {
			return nil, err
		}
		return Ident{Spec: spec}, nil
	case Grouped:
		inner, err := Resolve(n.Inner, resolve)
		if err != nil {
			return nil, err
		}
		n.Inner = inner
		return n, nil
	case Access:
		base, err := Resolve(n.Base, resolve)
		if err != nil {
			return nil, err
		}
		n.Base = base
		return n, nil
	case ObjectLit:
		for k, v := range n.Fields {
			rv, err := Resolve(v, resolve)
			if err != nil {
				return nil, err
			}
			n.Fields[k] = rv
		}
		return n, nil
	case RangeLit:
		a, err := Resolve(n.From, resolve)
		if err != nil {
			return nil, err
		}
		b, err := Resolve(n.To, resolve)
		if err != nil {
			return nil, err
		}
		n.From, n.To = a, b
		return n, nil
	case TupleLit:
		return resolveItems(n, n.Items, resolve, func(items []Expr) Expr { return TupleLit{Items: items} })
	case ListLit:
		return resolveItems(n, n.Items, resolve, func(items []Expr) Expr { return ListLit{Items: items} })
	case Call:
		items, err := resolveSlice(n.Args, resolve)
		if err != nil {
			return nil, err
		}
		n.Args = items
		return n, nil
	case Binary:
		l, err := Resolve(n.L, resolve)
		if err != nil {
			return nil, err
		}
		r, err := Resolve(n.R, resolve)
		if err != nil {
			return nil, err
		}
		n.L, n.R = l, r
		return n, nil
	case Unary:
		x, err := Resolve(n.X, resolve)
		if err != nil {
			return nil, err
		}
		n.X = x
		return n, nil
	case Ternary:
		c, err := Resolve(n.Cond, resolve)
		if err != nil {
			return nil, err
		}
		th, err := Resolve(n.Then, resolve)
		if err != nil {
			return nil, err
		}
		el, err := Resolve(n.Else, resolve)
		if err != nil {
			return nil, err
		}
		n.Cond, n.Then, n.Else = c, th, el
		return n, nil
	default:
		return expr, nil
	}
}

func resolveSlice(items []Expr, resolve func(string, []string) (InvocationSpec, error)) ([]Expr, error) {
	out := make([]Expr, len(items))
	for i, e := range items {
		r, err := Resolve(e, resolve)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func resolveItems(_ Expr, items []Expr, resolve func(string, []string) (InvocationSpec, error), rebuild func([]Expr) Expr) (Expr, error) {
	out, err := resolveSlice(items, resolve)
	if err != nil {
		return nil, err
	}
	return rebuild(out), nil
}
