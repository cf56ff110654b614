package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/sources"
)

func TestParseNumberedList(t *testing.T) {
	text := `1. Isaac Newton
2. Albert Einstein
3) Charles Darwin
4 - Marie Curie`

	list := sources.ParseRankedList("model-a", text)
	require.Len(t, list.Entries, 4)
	assert.Equal(t, ingest.Entry{Name: "Isaac Newton", Rank: 1}, list.Entries[0])
	assert.Equal(t, ingest.Entry{Name: "Charles Darwin", Rank: 3}, list.Entries[2])
	assert.Equal(t, ingest.Entry{Name: "Marie Curie", Rank: 4}, list.Entries[3])
}

func TestParseSkipsProseAndBlankLines(t *testing.T) {
	text := `Here is my ranking of the most historically significant people of all time:

1. Muhammad
2. Isaac Newton

I hope this list is helpful for your research project today.`

	list := sources.ParseRankedList("model-a", text)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "Muhammad", list.Entries[0].Name)
	assert.Equal(t, "Isaac Newton", list.Entries[1].Name)
}

func TestParseStripsMarkdownAndJustifications(t *testing.T) {
	text := "1. **Isaac Newton** – laws of motion and gravitation\n" +
		"2. *Aristotle*"

	list := sources.ParseRankedList("model-a", text)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "Isaac Newton", list.Entries[0].Name)
	assert.Equal(t, "Aristotle", list.Entries[1].Name)
}

func TestParseBareLinesContinueSequence(t *testing.T) {
	text := `1. Confucius
Laozi
Sun Tzu`

	list := sources.ParseRankedList("model-a", text)
	require.Len(t, list.Entries, 3)
	assert.Equal(t, 1, list.Entries[0].Rank)
	assert.Equal(t, 2, list.Entries[1].Rank)
	assert.Equal(t, 3, list.Entries[2].Rank)
}

func TestParseEmptyInput(t *testing.T) {
	list := sources.ParseRankedList("model-a", "")
	assert.Empty(t, list.Entries)
	assert.Equal(t, "model-a", string(list.Source))
}

func TestNewProviderValidation(t *testing.T) {
	_, err := sources.New(sources.Config{Provider: "openai"})
	require.Error(t, err) // missing API key

	_, err = sources.New(sources.Config{Provider: "carrier-pigeon", APIKey: "k"})
	require.Error(t, err)

	p, err := sources.New(sources.Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = sources.New(sources.Config{Provider: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}
