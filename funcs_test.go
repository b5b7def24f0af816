package rootfind

import (
	"math"
	"testing"
)

func TestFuncs(t *testing.T) {
	cases := []struct {
		name string
		x, r float64
	}{
		{"sin", math.Pi / 2, 1},
		{"sen", math.Pi / 2, 1},
		{"cos", 0, 1},
		{"tan", math.Pi / 4, 1},
		{"tg", math.Pi / 4, 1},
		{"cosec", math.Pi / 2, 1},
		{"sec", 0, 1},
		{"cotg", math.Pi / 4, 1},
		{"cot", math.Pi / 4, 1},
		{"sinh", 0, 0},
		{"cosh", 0, 1},
		{"tanh", 0, 0},
		{"exp", 1, math.E},
		{"log", math.E, 1},
		{"ln", 1, 0},
		{"log10", 1000, 3},
		{"sqrt", 16, 4},
		{"raiz", 9, 3},
		{"abs", -2.5, 2.5},
	}
	if len(cases) != len(globalfuncs) {
		t.Errorf("%d functions tested, %d defined", len(cases), len(globalfuncs))
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rpn := []Token{{Text: Variable, Kind: TokenVar, Col: 1}, {Text: c.name, Kind: TokenFunc, Col: 2}}
			r, err := EvalPostfix(rpn, c.x)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(r-c.r) > 1e-12 {
				t.Errorf("%s(%g): want %g, got %g", c.name, c.x, c.r, r)
			}
		})
	}
}

func TestFuncsSorted(t *testing.T) {
	names := Funcs()
	if len(names) != len(globalfuncs) {
		t.Fatalf("want %d names, got %d", len(globalfuncs), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names out of order: %q before %q", names[i-1], names[i])
		}
	}
}

func TestBigFuncsHaveFloat(t *testing.T) {
	for name := range bigfuncs {
		if globalfuncs[name] == nil {
			t.Errorf("%s has a precise implementation but no float64 one", name)
		}
	}
}
