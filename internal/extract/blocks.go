package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

// yProximity is how close (in normalized page coordinates) two blocks must be
// vertically to count as the same pseudo-line.
const yProximity = 0.015

var reTrailingPrice = regexp.MustCompile(`\$?(\d{1,6}\.\d{2})\s*$`)

// BlockStrategy groups provider text blocks by vertical proximity into
// pseudo-line-items and reads a trailing price off each group. Only useful
// for providers that return positioned blocks.
type BlockStrategy struct{}

func (BlockStrategy) Name() string { return StrategyBlocks }

func (BlockStrategy) Extract(res provider.RecognitionResult) []LineItemCandidate {
	if len(res.Blocks) == 0 {
		return nil
	}

	blocks := make([]provider.Block, len(res.Blocks))
	copy(blocks, res.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y != blocks[j].Y {
			return blocks[i].Y < blocks[j].Y
		}
		return blocks[i].X < blocks[j].X
	})

	var out []LineItemCandidate
	var group []provider.Block
	flush := func() {
		if len(group) == 0 {
			return
		}
		if c, ok := groupToItem(group); ok {
			out = append(out, c)
		}
		group = nil
	}

	for _, b := range blocks {
		if len(group) > 0 && b.Y-group[len(group)-1].Y > yProximity {
			flush()
		}
		group = append(group, b)
	}
	flush()
	return out
}

func groupToItem(group []provider.Block) (LineItemCandidate, bool) {
	parts := make([]string, 0, len(group))
	for _, b := range group {
		parts = append(parts, strings.TrimSpace(b.Text))
	}
	line := strings.TrimSpace(strings.Join(parts, " "))
	if line == "" || isNonItemLine(line) {
		return LineItemCandidate{}, false
	}

	m := reTrailingPrice.FindStringSubmatch(line)
	if m == nil {
		return LineItemCandidate{}, false
	}
	name := strings.TrimSpace(strings.TrimSuffix(line, m[0]))
	total := parseFloat(m[1])
	return newItem(name, 1, total, total, confBlocks, StrategyBlocks)
}
