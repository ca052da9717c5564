package pattern

// TestTable represents a list of tests with a status each.
type TestTable struct {
	Label   string
	Results []TestTableItem
}

// TestTableItem is a single test row.
type TestTableItem struct {
	Name    string // test path
	Status  string // "pass", "fail", "skip"
	Count   int    // number of tests (group rows)
	Details string // keywords, annotation or change description
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
