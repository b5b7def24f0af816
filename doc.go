// Package rootfind parses and evaluates real functions of one variable for
// use with numerical root finders.
//
// The syntax is ordinary infix math: "sin(x)^2 - 0.5", "f(x) = e^(x) - 2".
// The free variable is always x. Numbers are decimal without exponents; e and
// pi are constants. + - * / ^ have the usual precedence, ^ groups to the
// right, and a leading + or - applies to the operand after it. Functions take
// one parenthesized argument: sin/sen, cos, tan/tg, cosec, sec, cotg/cot,
// sinh, cosh, tanh, exp, log/ln, log10, sqrt/raiz, abs.
//
// Compile returns a Function which re-parses its expression on every
// evaluation. The lower-level Tokenize, ShuntingYard, and EvalPostfix expose
// each stage. Package solve holds the root finders.
package rootfind
