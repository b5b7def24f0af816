package rootfind

import (
	"math"
	"math/big"
	"sort"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals as used by the evaluator.
type Func func(float64) float64

// globalfuncs holds the functions recognized by name. Names are
// case-sensitive; Portuguese names are accepted alongside English ones.
var globalfuncs = map[string]Func{
	"sin":   math.Sin,
	"sen":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"tg":    math.Tan,
	"cosec": func(x float64) float64 { return 1 / math.Sin(x) },
	"sec":   func(x float64) float64 { return 1 / math.Cos(x) },
	"cotg":  func(x float64) float64 { return 1 / math.Tan(x) },
	"cot":   func(x float64) float64 { return 1 / math.Tan(x) },
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"exp":   math.Exp,
	"log":   math.Log,
	"ln":    math.Log,
	"log10": math.Log10,
	"sqrt":  math.Sqrt,
	"raiz":  math.Sqrt,
	"abs":   math.Abs,
}

// Funcs returns the sorted names of the recognized functions.
func Funcs() []string {
	names := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// bigFunc computes a function to the precision of out. in may be modified.
type bigFunc func(out, in *big.Float) error

// bigfuncs holds the functions that have arbitrary-precision implementations.
// Functions missing here are computed in float64 during precise evaluation.
var bigfuncs = map[string]bigFunc{
	"exp":   bigExp,
	"log":   bigLog,
	"ln":    bigLog,
	"log10": bigLog10,
	"sqrt":  bigSqrt,
	"raiz":  bigSqrt,
	"abs": func(out, in *big.Float) error {
		out.Abs(in)
		return nil
	},
}

func bigExp(out, in *big.Float) error {
	if in.IsInf() {
		if in.Signbit() {
			out.SetInt64(0)
		} else {
			out.SetInf(false)
		}
		return nil
	}
	bigfloat.Exp(out, in)
	return nil
}

func bigLog(out, in *big.Float) error {
	if in.Sign() <= 0 {
		f, _ := in.Float64()
		return &DomainError{X: f, Func: "log"}
	}
	if in.IsInf() {
		out.SetInf(false)
		return nil
	}
	bigfloat.Log(out, in)
	return nil
}

func bigLog10(out, in *big.Float) error {
	if err := bigLog(out, in); err != nil {
		f, _ := in.Float64()
		return &DomainError{X: f, Func: "log10"}
	}
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	bigfloat.Log(ten, ten)
	out.Quo(out, ten)
	return nil
}

func bigSqrt(out, in *big.Float) error {
	if in.Sign() < 0 {
		f, _ := in.Float64()
		return &DomainError{X: f, Func: "sqrt"}
	}
	out.Sqrt(in)
	return nil
}

// bigPow sets out to x^y. Non-positive bases are only defined for integer
// exponents and are computed in float64.
func bigPow(out, x, y *big.Float) error {
	if x.Sign() > 0 {
		if x.IsInf() || y.IsInf() {
			xf, _ := x.Float64()
			yf, _ := y.Float64()
			out.SetFloat64(math.Pow(xf, yf))
			return nil
		}
		bigfloat.Pow(out, x, y)
		return nil
	}
	xf, _ := x.Float64()
	yf, _ := y.Float64()
	r := math.Pow(xf, yf)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return &DomainError{X: xf, Func: "^"}
	}
	out.SetFloat64(r)
	return nil
}

// bigConst returns the arbitrary-precision value of the constant named by
// a token's Const, or nil if name is empty or unknown.
func bigConst(name string, prec uint) *big.Float {
	switch name {
	case "pi":
		return bigfloat.Pi(new(big.Float).SetPrec(prec))
	case "e":
		one := new(big.Float).SetPrec(prec).SetInt64(1)
		return bigfloat.Exp(new(big.Float).SetPrec(prec), one)
	default:
		return nil
	}
}
