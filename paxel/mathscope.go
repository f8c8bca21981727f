package paxel

import (
	"fmt"
	"math"
)

// UnknownFunctionError reports a call to an unregistered (scope, name, arity)
// triple. Function dispatch is case-sensitive.
type UnknownFunctionError struct {
	Scope string
	Name  string
	Arity int
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("paxel: unknown function %s::%s/%d", e.Scope, e.Name, e.Arity)
}

// CallFunction dispatches scope::name(args) by name. Operator parsing and
// direct function/enum calls share this single code path: both
// `a + b` and `call_function("Math", "+", [a, b])` land here.
func CallFunction(scope, name string, args []Value) (Value, error) {
	if scope != "Math" {
		return Value{}, &UnknownFunctionError{Scope: scope, Name: name, Arity: len(args)}
	}
	switch name {
	case "+", "-", "*", "/", "%", "^", "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		if len(args) != 2 {
			return Value{}, &UnknownFunctionError{Scope: scope, Name: name, Arity: len(args)}
		}
		return mathBinary(name, args[0], args[1])
	case "neg":
		if len(args) != 1 {
			return Value{}, &UnknownFunctionError{Scope: scope, Name: name, Arity: len(args)}
		}
		f, err := CoerceFloat64(args[0])
		if err != nil {
			return Value{}, err
		}
		return Num(-f), nil
	case "not":
		if len(args) != 1 {
			return Value{}, &UnknownFunctionError{Scope: scope, Name: name, Arity: len(args)}
		}
		b, err := CoerceBool(args[0])
		if err != nil {
			return Value{}, err
		}
		return Bool(!b), nil
	default:
		return Value{}, &UnknownFunctionError{Scope: scope, Name: name, Arity: len(args)}
	}
}

func mathBinary(op string, lhs, rhs Value) (Value, error) {
	switch op {
	case "&&":
		l, err := CoerceBool(lhs)
		if err != nil {
			return Value{}, err
		}
		r, err := CoerceBool(rhs)
		if err != nil {
			return Value{}, err
		}
		return Bool(l && r), nil
	case "||":
		l, err := CoerceBool(lhs)
		if err != nil {
			return Value{}, err
		}
		r, err := CoerceBool(rhs)
		if err != nil {
			return Value{}, err
		}
		return Bool(l || r), nil
	case "==", "!=", "<", "<=", ">", ">=":
		return compareValues(op, lhs, rhs)
	}

	l, err := CoerceFloat64(lhs)
	if err != nil {
		return Value{}, err
	}
	r, err := CoerceFloat64(rhs)
	if err != nil {
		return Value{}, err
	}
	switch op {
	case "+":
		return Num(l + r), nil
	case "-":
		return Num(l - r), nil
	case "*":
		return Num(l * r), nil
	case "/":
		return Num(l / r), nil
	case "%":
		return Num(math.Mod(l, r)), nil
	case "^":
		return Num(math.Pow(l, r)), nil
	default:
		return Value{}, &UnknownFunctionError{Scope: "Math", Name: op, Arity: 2}
	}
}

// compareValues implements the relational operators. Rotation comparisons
// are normalized to radians first. Booleans compare with == and != only.
func compareValues(op string, lhs, rhs Value) (Value, error) {
	var l, r float64
	var err error
	switch {
	case lhs.Kind == KindBool && rhs.Kind == KindBool:
		switch op {
		case "==":
			return Bool(lhs.Bool == rhs.Bool), nil
		case "!=":
			return Bool(lhs.Bool != rhs.Bool), nil
		}
		return Value{}, &UnknownFunctionError{Scope: "Math", Name: op, Arity: 2}
	case lhs.Kind == KindRotation || rhs.Kind == KindRotation:
		lr, e1 := CoerceRotation(lhs)
		rr, e2 := CoerceRotation(rhs)
		if e1 != nil {
			return Value{}, e1
		}
		if e2 != nil {
			return Value{}, e2
		}
		l, r = lr.Radians(), rr.Radians()
	case lhs.Kind == KindString && rhs.Kind == KindString:
		return Bool(compareStrings(op, lhs.Str, rhs.Str)), nil
	default:
		l, err = CoerceFloat64(lhs)
		if err != nil {
			return Value{}, err
		}
		r, err = CoerceFloat64(rhs)
		if err != nil {
			return Value{}, err
		}
	}
	switch op {
	case "==":
		return Bool(l == r), nil
	case "!=":
		return Bool(l != r), nil
	case "<":
		return Bool(l < r), nil
	case "<=":
		return Bool(l <= r), nil
	case ">":
		return Bool(l > r), nil
	case ">=":
		return Bool(l >= r), nil
	default:
		return Value{}, &UnknownFunctionError{Scope: "Math", Name: op, Arity: 2}
	}
}

func compareStrings(op, l, r string) bool {
	switch op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	default:
		return false
	}
}
