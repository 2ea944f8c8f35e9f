package extract

import (
	"sort"
	"strings"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

// TableStrategy reads provider-supplied table structures: one item per row,
// name from the leading cells, price from the trailing cell.
type TableStrategy struct{}

func (TableStrategy) Name() string { return StrategyTable }

func (TableStrategy) Extract(res provider.RecognitionResult) []LineItemCandidate {
	var out []LineItemCandidate
	for _, table := range res.Tables {
		rows := make(map[int][]provider.TableCell)
		for _, cell := range table.Cells {
			rows[cell.Row] = append(rows[cell.Row], cell)
		}

		rowIdx := make([]int, 0, len(rows))
		for r := range rows {
			rowIdx = append(rowIdx, r)
		}
		sort.Ints(rowIdx)

		for _, r := range rowIdx {
			cells := rows[r]
			sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
			if c, ok := rowToItem(cells); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func rowToItem(cells []provider.TableCell) (LineItemCandidate, bool) {
	if len(cells) < 2 {
		return LineItemCandidate{}, false
	}

	last := strings.TrimSpace(cells[len(cells)-1].Text)
	m := reTrailingPrice.FindStringSubmatch(last)
	if m == nil {
		return LineItemCandidate{}, false
	}

	parts := make([]string, 0, len(cells)-1)
	for _, c := range cells[:len(cells)-1] {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	name := strings.Join(parts, " ")
	if isNonItemLine(name) {
		return LineItemCandidate{}, false
	}
	total := parseFloat(m[1])
	return newItem(name, 1, total, total, confTable, StrategyTable)
}
