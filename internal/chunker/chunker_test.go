package chunker

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_EmptyInput(t *testing.T) {
	c, err := New(DefaultThresholds(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{}, c.Segment(""))
	assert.Equal(t, []string{}, c.Segment(" \n\t\n"))
}

func TestSegment_TwoOrders(t *testing.T) {
	text := "## ORDER I\nShort Title\nText A." + "## ORDER II\nText B."

	chunks, err := Segment(text, smallThresholds())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "## ORDER I\nShort Title\nText A.", chunks[0])
	assert.Equal(t, "## ORDER II\nText B.", chunks[1])
}

func TestSegment_LargeOrderSplitByRules(t *testing.T) {
	th := DefaultThresholds()
	text := orderWithRules("VII", 3, 2000)
	require.Greater(t, charLen(text), th.RuleSplitThreshold)

	chunks, err := Segment(text, th)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[0], "## ORDER VII"))
	assert.True(t, strings.HasPrefix(chunks[1], "ORDER VII (continued)"))
	assert.True(t, strings.HasPrefix(chunks[2], "ORDER VII (continued)"))
}

func TestSegment_UnstructuredFallback(t *testing.T) {
	th := DefaultThresholds()
	text := paragraphs(60, 198)

	chunks, err := Segment(text, th)
	require.NoError(t, err)
	assert.Len(t, chunks, 12)
	for _, c := range chunks {
		assert.LessOrEqual(t, charLen(c), th.FallbackChunkSize)
	}
}

func TestSegment_FallbackDoesNotMerge(t *testing.T) {
	th := smallThresholds()
	th.MinChunkSize = 50
	text := filler(97) + "\n\ntiny"

	chunks, err := Segment(text, th)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "tiny", chunks[1])
}

func TestSegment_PreambleAndAppendix(t *testing.T) {
	th := smallThresholds()
	preamble := filler(200)
	order1 := "## ORDER I\n" + filler(300)
	order2 := "## ORDER II\n" + filler(300)
	schedule := "THE FIRST SCHEDULE\n" + filler(200)
	text := preamble + "\n\n" + order1 + "\n\n" + order2 + "\n\n" + schedule

	chunks, err := Segment(text, th)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, preamble, chunks[0])
	assert.Equal(t, order1, chunks[1])
	assert.Equal(t, order2, chunks[2])
	assert.Equal(t, schedule, chunks[3])
}

func TestSegment_ShortAppendixStaysWithLastOrder(t *testing.T) {
	text := "## ORDER I\n" + filler(900) + "\n\nAPPENDIX A\nForm of plaint: see rule 1."

	chunks, err := Segment(text, DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Form of plaint")
	assert.Equal(t, squash(text), squash(chunks[0]))
}

func TestSegment_AppendixKeepsHeadingBeforeSections(t *testing.T) {
	order := "## ORDER I\n" + filler(300)
	form := "1. Forms of decree\n" + filler(200)
	text := order + "\n\nTHE FIRST SCHEDULE\n" + form

	chunks, err := Segment(text, smallThresholds())
	require.NoError(t, err)
	assert.Equal(t, []string{order, "THE FIRST SCHEDULE", form}, chunks)
}

func TestSegment_LogsThresholds(t *testing.T) {
	var buf bytes.Buffer
	c, err := New(smallThresholds(), slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	c.Segment("## ORDER I\nbody")
	assert.Contains(t, buf.String(), "min=5 max=1000 rule_split=500 fallback=100 noise=100")
}

func TestSegment_ShortPreambleDropped(t *testing.T) {
	text := "Page 1 of 300\n\n## ORDER I\nbody one\n\n## ORDER II\nbody two"

	chunks, err := Segment(text, smallThresholds())
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0], "## ORDER I"))
}

func TestSegment_SizeFloor(t *testing.T) {
	th := DefaultThresholds()
	var b strings.Builder
	b.WriteString(filler(50) + "\n\n")
	for i, n := range []int{900, 120, 200, 3000, 40} {
		b.WriteString("## ORDER " + []string{"I", "II", "III", "IV", "V"}[i] + "\n")
		b.WriteString(filler(n) + "\n\n")
	}

	chunks, err := Segment(b.String(), th)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.GreaterOrEqual(t, charLen(c), th.MinChunkSize, "chunk %d", i)
	}
}

func TestSegment_CoversAllUnitText(t *testing.T) {
	th := DefaultThresholds()
	text := orderWithRules("VII", 4, 2000) + "\n\n## ORDER VIII\n" + paragraphs(3, 400)

	chunks, err := Segment(text, th)
	require.NoError(t, err)

	joined := strings.ReplaceAll(strings.Join(chunks, "\n\n"), ContinuationMarker("VII"), "")
	assert.Equal(t, squash(text), squash(joined))
}

func TestSegment_ConcurrentUse(t *testing.T) {
	c, err := New(DefaultThresholds(), nil)
	require.NoError(t, err)
	text := orderWithRules("VII", 3, 2000)
	want := c.Segment(text)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, c.Segment(text))
		}()
	}
	wg.Wait()
}

func TestNew_InvalidThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.MinChunkSize = 0

	c, err := New(th, nil)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrInvalidThresholds))

	_, err = Segment("text", th)
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}
