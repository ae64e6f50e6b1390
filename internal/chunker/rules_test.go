package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithRules(id string, rules, ruleSize int) string {
	var sb strings.Builder
	sb.WriteString("## ORDER " + id + "\n## PAUPER SUITS\n\n")
	for i := 1; i <= rules; i++ {
		fmt.Fprintf(&sb, "Rule %d. %s\n\n", i, paragraphs(5, ruleSize/5))
	}
	return strings.TrimSpace(sb.String())
}

func TestSplitRules_ByRuleMarkers(t *testing.T) {
	unit := orderWithRules("VII", 3, 2000)
	require.Greater(t, charLen(unit), 5000)

	chunks := SplitRules(unit, "VII", 8000)
	require.Len(t, chunks, 3)

	assert.True(t, strings.HasPrefix(chunks[0], "## ORDER VII\n## PAUPER SUITS\n\nRule 1."))
	assert.True(t, strings.HasPrefix(chunks[1], "ORDER VII (continued)\n\nRule 2."))
	assert.True(t, strings.HasPrefix(chunks[2], "ORDER VII (continued)\n\nRule 3."))
}

func TestSplitRules_NumberedRuleMarkers(t *testing.T) {
	unit := "ORDER IX\nAppearance of parties\n\n1. Rule 1 - Parties to appear.\nbody one\n\n2. Rule 2: Dismissal.\nbody two"

	chunks := SplitRules(unit, "IX", 8000)
	require.Len(t, chunks, 2)
	assert.Equal(t, "ORDER IX\nAppearance of parties\n\n1. Rule 1 - Parties to appear.\nbody one", chunks[0])
	assert.Equal(t, "ORDER IX (continued)\n\n2. Rule 2: Dismissal.\nbody two", chunks[1])
}

func TestSplitRules_RulesListFallback(t *testing.T) {
	unit := "## ORDER II\nDefinitions\n\nRULES\n1. " + filler(400) + "\n2. " + filler(400) + "\n3. " + filler(400)

	chunks := SplitRules(unit, "II", 600)
	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[0], "## ORDER II\nDefinitions\n\nRULES\n\n1. "))
	assert.True(t, strings.HasPrefix(chunks[1], "ORDER II (continued)\n\n2. "))
	assert.True(t, strings.HasPrefix(chunks[2], "ORDER II (continued)\n\n3. "))
}

func TestSplitRules_NoRulesFallsBackToParagraphs(t *testing.T) {
	unit := "## ORDER III\n\n" + paragraphs(10, 300)

	chunks := SplitRules(unit, "III", 1000)
	require.Greater(t, len(chunks), 1)

	assert.True(t, strings.HasPrefix(chunks[0], "## ORDER III"))
	for i, c := range chunks {
		assert.LessOrEqual(t, charLen(c), 1000, "chunk %d", i)
		if i > 0 {
			assert.True(t, strings.HasPrefix(c, "ORDER III (continued)\n\n"), "chunk %d", i)
		}
	}
}

func TestSplitRules_OversizedRuleSplitInPlace(t *testing.T) {
	unit := "## ORDER V\n\nRule 1. Short rule.\n\nRule 2. " + paragraphs(10, 300) + "\n\nRule 3. Last rule."

	chunks := SplitRules(unit, "V", 1000)
	require.Greater(t, len(chunks), 3)

	assert.Equal(t, "## ORDER V\n\nRule 1. Short rule.", chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "ORDER V (continued)\n\nRule 2."))
	assert.Equal(t, "ORDER V (continued)\n\nRule 3. Last rule.", chunks[len(chunks)-1])
	for i, c := range chunks {
		assert.LessOrEqual(t, charLen(c), 1000, "chunk %d", i)
		if i > 0 {
			assert.Contains(t, c, ContinuationMarker("V"), "chunk %d", i)
		}
	}
}

func TestSplitRules_NoLossOrDuplication(t *testing.T) {
	unit := "## ORDER V\n\nRule 1. Short rule.\n\nRule 2. " + paragraphs(10, 300) + "\n\nRule 3. Last rule."

	chunks := SplitRules(unit, "V", 1000)
	joined := strings.ReplaceAll(strings.Join(chunks, "\n\n"), ContinuationMarker("V"), "")
	assert.Equal(t, squash(unit), squash(joined))
}
