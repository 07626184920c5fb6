package league

// Upstream default position ids to readable position names.
var positionNames = map[int]string{
	0:  "QB",
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "D/ST",
	17: "FLEX",
	20: "BENCH",
	21: "IR",
}

// PositionName converts an upstream position id to a readable name.
func PositionName(positionID int) string {
	if name, ok := positionNames[positionID]; ok {
		return name
	}
	return "FLEX"
}
