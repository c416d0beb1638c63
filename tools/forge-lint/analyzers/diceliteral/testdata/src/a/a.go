package a

type Table struct {
	ID   string
	Dice string
}

type Roller struct{}

func (Roller) Roll(expr string) int { return 0 }

var tables = []Table{
	{ID: "names", Dice: "1d100"},
	{ID: "loot", Dice: "3d6+2"},
	{ID: "fixed", Dice: "7"},
	{ID: "percent", Dice: "d%"},
	{ID: "weighted", Dice: ""},
	{ID: "typo", Dice: "1d"},         // want `dice expression "1d" is not NdM\[\+-K\] or an integer`
	{ID: "words", Dice: "two d six"}, // want `dice expression "two d six" is not NdM\[\+-K\] or an integer`
}

func rolls(r Roller, expr string) {
	r.Roll("2d8-1")
	r.Roll(expr)
	r.Roll("1d6x2") // want `dice expression "1d6x2" is not NdM\[\+-K\] or an integer`
}
