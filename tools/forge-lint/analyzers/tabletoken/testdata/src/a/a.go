package a

var good = []string{
	"A stranger at [TABLE:taverns] is buying drinks.",
	"A pack of [ROLL:1d4+2] wolves near [TABLE:locations].",
	"No tokens at all, just [brackets].",
}

var unterminated = "Beware [TABLE:monsters" // want `\[TABLE: token is missing its closing bracket`

var empty = "Roll [ROLL: ] times" // want `\[ROLL:\] token is empty`

var lowercase = "Meet at [table:taverns]" // want `token \[table: must be written \[TABLE:`

var second = "[TABLE:weather] then [TABLE:]" // want `\[TABLE:\] token is empty`
