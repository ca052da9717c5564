package report

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkoosis/lta/pkg/analyzer"
)

// StatsCSV renders one spreadsheet row:
// timestamp,total,skipped,failing non-skipped,passing rate.
func StatsCSV(snap *analyzer.Snapshot, timestamp string) (string, error) {
	c := snap.Counts()
	rate, err := c.PassingRate()
	if err != nil {
		return "", err
	}
	row := []string{
		timestamp,
		strconv.Itoa(c.Whole),
		strconv.Itoa(c.Skip),
		strconv.Itoa(c.NonSkip),
		strconv.Itoa(rate),
	}
	out, err := writeCSV([][]string{row})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(out, "\n"), nil
}

// IssuesCSV renders one line per bug referenced by a non-skipped test:
// prefix,number, followed by keywords,test, for each test in the group.
// Lines end with a trailing comma.
func IssuesCSV(snap *analyzer.Snapshot) (string, error) {
	groups := snap.NonSkipBugGroups()
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := []string{g.Bug.Prefix, g.Bug.Number}
		for _, bt := range g.Tests {
			row = append(row, strings.Join(bt.Keywords, " "), bt.Name)
		}
		rows = append(rows, append(row, ""))
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) (string, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
