package workout

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Parse evaluates a generated workout expression against the constructor
// whitelist and returns the resulting workout. The grammar is deliberately
// tiny: one call expression over whitelisted constructors, with string and
// numeric literals as leaves. Nothing is executed beyond constructing the
// domain values, so evaluation is a pure function of the source text.
//
// Failures come back as *ValidationError with a kind the retry loop can
// report to the model.
func Parse(src string) (*Workout, error) {
	expr, err := parser.ParseExpr(strings.TrimSpace(src))
	if err != nil {
		return nil, syntaxErr(err.Error())
	}

	v, verr := evalExpr(expr)
	if verr != nil {
		return nil, verr
	}

	w, ok := v.(*Workout)
	if !ok || !w.Sport.known() {
		return nil, structuralErr("not a valid workout type")
	}
	if w.Name == "" {
		return nil, structuralErr("missing name")
	}
	if len(w.Steps) == 0 {
		return nil, structuralErr("no segments")
	}
	return w, nil
}

func evalExpr(expr ast.Expr) (any, *ValidationError) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return evalExpr(e.X)

	case *ast.CallExpr:
		return evalCall(e)

	case *ast.BasicLit:
		return evalLiteral(e)

	case *ast.UnaryExpr:
		return evalUnary(e)

	case *ast.Ident:
		return nil, unknownSymbolErr(fmt.Sprintf("undefined symbol %q", e.Name))

	case *ast.SelectorExpr:
		return nil, unknownSymbolErr(fmt.Sprintf("undefined symbol %q", exprText(e)))

	default:
		return nil, syntaxErr(fmt.Sprintf("unsupported expression %q", exprText(expr)))
	}
}

func evalCall(call *ast.CallExpr) (any, *ValidationError) {
	ident, ok := call.Fun.(*ast.Ident)
	if !ok {
		return nil, unknownSymbolErr(fmt.Sprintf("cannot call %q", exprText(call.Fun)))
	}
	ctor, ok := constructors[ident.Name]
	if !ok {
		return nil, unknownSymbolErr(fmt.Sprintf("undefined constructor %q", ident.Name))
	}

	args := make([]any, 0, len(call.Args))
	for _, arg := range call.Args {
		v, verr := evalExpr(arg)
		if verr != nil {
			return nil, verr
		}
		args = append(args, v)
	}

	v, verr := ctor(args)
	if verr != nil {
		return nil, verr
	}
	return v, nil
}

func evalLiteral(lit *ast.BasicLit) (any, *ValidationError) {
	switch lit.Kind {
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return nil, syntaxErr(fmt.Sprintf("bad string literal %s", lit.Value))
		}
		return s, nil
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return nil, syntaxErr(fmt.Sprintf("bad integer literal %s", lit.Value))
		}
		return n, nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, syntaxErr(fmt.Sprintf("bad number literal %s", lit.Value))
		}
		return f, nil
	default:
		return nil, syntaxErr(fmt.Sprintf("unsupported literal %s", lit.Value))
	}
}

func evalUnary(e *ast.UnaryExpr) (any, *ValidationError) {
	if e.Op != token.SUB {
		return nil, syntaxErr(fmt.Sprintf("unsupported operator %q", e.Op.String()))
	}
	v, verr := evalExpr(e.X)
	if verr != nil {
		return nil, verr
	}
	switch n := v.(type) {
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	default:
		return nil, syntaxErr("operator - requires a number")
	}
}

// exprText renders a short description of an AST node for error messages.
func exprText(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return exprText(e.X) + "." + e.Sel.Name
	default:
		return fmt.Sprintf("%T", expr)
	}
}
