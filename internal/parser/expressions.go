package parser

import (
	"github.com/ssrlive/ecmacore/internal/ast"
	"github.com/ssrlive/ecmacore/internal/token"
)

// parseExpression parses a (possibly comma-joined) expression.
func (p *Parser) parseExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.Comma {
		return first, nil
	}
	exprs := []ast.Expression{first}
	for p.cur.Type == token.Comma {
		p.next()
		e, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SequenceExpression{Base: ast.At(pos), Expressions: exprs}, nil
}

var assignOps = map[token.Type]string{
	token.Assign: "=", token.PlusAssign: "+=", token.MinusAssign: "-=",
	token.StarAssign: "*=", token.SlashAssign: "/=", token.PercentAssign: "%=",
	token.StarStarAssign: "**=", token.AmpAssign: "&=", token.PipeAssign: "|=",
	token.CaretAssign: "^=", token.ShlAssign: "<<=", token.ShrAssign: ">>=",
	token.UShrAssign: ">>>=", token.AndAssign: "&&=", token.OrAssign: "||=",
	token.QQAssign: "??=",
}

// parseAssignment handles arrow functions (via lookahead dispatch),
// yield/await prefix forms, conditional expressions, and right-assoc
// assignment with all compound operators (spec 4.4.2, "Compound assignment").
func (p *Parser) parseAssignment() (ast.Expression, error) {
	if p.cur.Type == token.Yield {
		return p.parseYield()
	}
	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}

	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	if op, ok := assignOps[p.cur.Type]; ok {
		pos := p.cur.Pos
		p.next()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		if mem, ok := left.(*ast.MemberExpression); ok && mem.Optional {
			return nil, p.fail(pos, "Invalid left-hand side expression in assignment, optional chaining is not allowed")
		}
		return &ast.AssignmentExpression{Base: ast.At(pos), Operator: op, Target: left, Value: right}, nil
	}
	return left, nil
}


func (p *Parser) parseYield() (ast.Expression, error) {
	pos := p.cur.Pos
	p.next()
	delegate := false
	if p.cur.Type == token.Star {
		delegate = true
		p.next()
	}
	var arg ast.Expression
	if !p.cur.NewlineBefore && p.cur.Type != token.Semicolon && p.cur.Type != token.RParen &&
		p.cur.Type != token.RBrace && p.cur.Type != token.RBracket && p.cur.Type != token.Comma &&
		p.cur.Type != token.EOF && p.cur.Type != token.Colon {
		var err error
		arg, err = p.parseAssignment()
		if err != nil {
			return nil, err
		}
	}
	return &ast.YieldExpression{Argument: arg, Delegate: delegate, Base: ast.At(pos)}, nil
}

func (p *Parser) parseConditional() (ast.Expression, error) {
	test, err := p.parseNullish()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.QuestionMark {
		return test, nil
	}
	pos := p.cur.Pos
	p.next()
	cons, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon, "':'"); err != nil {
		return nil, err
	}
	alt, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt, Base: ast.At(pos)}, nil
}

func (p *Parser) parseNullish() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.QuestionQuestion {
		pos := p.cur.Pos
		p.next()
		right, err := p.parseLogicalOr()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Operator: "??", Left: left, Right: right, Base: ast.At(pos)}
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.Or {
		pos := p.cur.Pos
		p.next()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Operator: "||", Left: left, Right: right, Base: ast.At(pos)}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.And {
		pos := p.cur.Pos
		p.next()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalExpression{Operator: "&&", Left: left, Right: right, Base: ast.At(pos)}
	}
	return left, nil
}

// binaryLevel chains one precedence level of left-associative binary ops.
func (p *Parser) binaryLevel(next func() (ast.Expression, error), ops map[token.Type]string) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur.Type]
		if !ok {
			return left, nil
		}
		pos := p.cur.Pos
		p.next()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Operator: op, Left: left, Right: right, Base: ast.At(pos)}
	}
}

func (p *Parser) parseBitOr() (ast.Expression, error) {
	return p.binaryLevel(p.parseBitXor, map[token.Type]string{token.Pipe: "|"})
}
func (p *Parser) parseBitXor() (ast.Expression, error) {
	return p.binaryLevel(p.parseBitAnd, map[token.Type]string{token.Caret: "^"})
}
func (p *Parser) parseBitAnd() (ast.Expression, error) {
	return p.binaryLevel(p.parseEquality, map[token.Type]string{token.Amp: "&"})
}
func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.binaryLevel(p.parseRelational, map[token.Type]string{
		token.Eq: "==", token.NotEq: "!=", token.StrictEq: "===", token.StrictNotEq: "!==",
	})
}
func (p *Parser) parseRelational() (ast.Expression, error) {
	ops := map[token.Type]string{
		token.Lt: "<", token.Gt: ">", token.LtEq: "<=", token.GtEq: ">=",
		token.Instanceof: "instanceof",
	}
	if !p.noIn {
		ops[token.In] = "in"
	}
	return p.binaryLevel(p.parseShift, ops)
}
func (p *Parser) parseShift() (ast.Expression, error) {
	return p.binaryLevel(p.parseAdditive, map[token.Type]string{
		token.Shl: "<<", token.Shr: ">>", token.UShr: ">>>",
	})
}
func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.binaryLevel(p.parseMultiplicative, map[token.Type]string{token.Plus: "+", token.Minus: "-"})
}
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.binaryLevel(p.parseExponent, map[token.Type]string{
		token.Star: "*", token.Slash: "/", token.Percent: "%",
	})
}

// parseExponent is right-associative: `2 ** 3 ** 2 === 2 ** (3 ** 2)`.
func (p *Parser) parseExponent() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.StarStar {
		return left, nil
	}
	pos := p.cur.Pos
	p.next()
	right, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Operator: "**", Left: left, Right: right, Base: ast.At(pos)}, nil
}

var unaryOps = map[token.Type]string{
	token.Bang: "!", token.Tilde: "~", token.Plus: "+", token.Minus: "-",
	token.Typeof: "typeof", token.Void: "void", token.Delete: "delete",
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if op, ok := unaryOps[p.cur.Type]; ok {
		pos := p.cur.Pos
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: op, Argument: arg, Base: ast.At(pos)}, nil
	}
	if p.cur.Type == token.Increment || p.cur.Type == token.Decrement {
		op := "++"
		if p.cur.Type == token.Decrement {
			op = "--"
		}
		pos := p.cur.Pos
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpression{Operator: op, Argument: arg, Prefix: true, Base: ast.At(pos)}, nil
	}
	if p.cur.Type == token.Await {
		pos := p.cur.Pos
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpression{Argument: arg, Base: ast.At(pos)}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parseCallOrMember()
	if err != nil {
		return nil, err
	}
	if !p.cur.NewlineBefore && (p.cur.Type == token.Increment || p.cur.Type == token.Decrement) {
		op := "++"
		if p.cur.Type == token.Decrement {
			op = "--"
		}
		pos := p.cur.Pos
		p.next()
		return &ast.UpdateExpression{Operator: op, Argument: expr, Prefix: false, Base: ast.At(pos)}, nil
	}
	return expr, nil
}

