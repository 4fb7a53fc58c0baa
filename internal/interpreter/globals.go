// Package interpreter stands in for the claw/volt runtime's global
// environment. The real interpreter is out of scope for this repository;
// what the analyzer and completion/signature-help handlers need from it
// is a read-only view of which names are globally callable and with how
// many parameters.
package interpreter

// builtinArity lists the runtime's built-in function set together with
// the parameter count the signature-help and
// completion handlers synthesize arg1..argN placeholders from. Values of -1
// mark names that exist but are not callable; none are currently non-callable,
// the set is kept here for parity with Globals' documented contract.
var builtinArity = map[string]int{
	"len":         1,
	"str":         1,
	"substr":      3,
	"toUpper":     1,
	"toLower":     1,
	"split":       2,
	"trim":        1,
	"indexOf":     2,
	"pow":         2,
	"sqrt":        1,
	"sin":         1,
	"cos":         1,
	"tan":         1,
	"abs":         1,
	"min":         2,
	"max":         2,
	"round":       1,
	"floor":       1,
	"ceil":        1,
	"random":      0,
	"readFile":    1,
	"writeFile":   2,
	"appendFile":  2,
	"exists":      1,
	"fileSize":    1,
	"keys":        1,
	"values":      1,
	"has":         2,
	"remove":      2,
	"compose":     2,
	"pipe":        2,
	"benchmark":   2,
	"sleep":       1,
	"now":         0,
	"formatDate":  2,
	"jsonEncode":  1,
	"jsonDecode":  1,
	"type":        1,
}

// Globals returns the fixed table of runtime global names mapped to their
// arity (-1 for a non-callable global). The map is a defensive copy so
// callers can't mutate the package-level table.
func Globals() map[string]int {
	out := make(map[string]int, len(builtinArity))
	for name, arity := range builtinArity {
		out[name] = arity
	}
	return out
}

// Arity reports the arity of a global name and whether it exists at all.
func Arity(name string) (arity int, exists bool) {
	arity, exists = builtinArity[name]
	return arity, exists
}
