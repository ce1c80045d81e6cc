package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `{
	"100002": {
		"text": "Body",
		"children": {
			"100714": {"text": "Bumper", "children": []},
			"100040": {
				"text": "Window Cleaning",
				"children": {
					"100241": {"text": "Wiper Blade", "children": []}
				}
			}
		}
	},
	"100006": {
		"text": "Brake System",
		"children": {
			"100032": {"text": "Brake Pad Set", "children": []}
		}
	}
}`

func TestParseTree(t *testing.T) {
	tree, err := ParseTree([]byte(sampleTree))
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Body", tree["100002"].Text)
	assert.Equal(t, "Wiper Blade", tree["100002"].Children["100040"].Children["100241"].Text)
}

func TestParseTreeUnwrapsCategoriesLayer(t *testing.T) {
	wrapped := `{"categories": ` + sampleTree + `}`
	tree, err := ParseTree([]byte(wrapped))
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Brake System", tree["100006"].Text)
}

func TestParseTreeRejectsGarbage(t *testing.T) {
	_, err := ParseTree([]byte(`"not a tree"`))
	assert.Error(t, err)
}

func TestLeaves(t *testing.T) {
	tree, err := ParseTree([]byte(sampleTree))
	require.NoError(t, err)

	leaves := tree.Leaves()
	require.Len(t, leaves, 3)
	assert.Equal(t, "Bumper", leaves["100714"].Name)
	assert.Equal(t, "Wiper Blade", leaves["100241"].Name)
	assert.Equal(t, "Brake Pad Set", leaves["100032"].Name)
	assert.NotContains(t, leaves, "100040")
}

func TestMarkdown(t *testing.T) {
	tree, err := ParseTree([]byte(sampleTree))
	require.NoError(t, err)

	expected := "# Body\n" +
		"- Wiper Blade (100241)\n" +
		"- Bumper (100714)\n" +
		"\n" +
		"# Brake System\n" +
		"- Brake Pad Set (100032)"
	assert.Equal(t, expected, tree.Markdown())
}

func TestCountryFilterID(t *testing.T) {
	assert.Equal(t, 62, CountryFilterID("Germany"))
	assert.Equal(t, 220, CountryFilterID("  UNITED KINGDOM "))
	assert.Equal(t, DefaultCountryFilterID, CountryFilterID("atlantis"))
	assert.Equal(t, DefaultCountryFilterID, CountryFilterID(""))
}
