package cms_test

import (
	"testing"
	"time"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Serialization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		node     cms.QueryNode
		expected string
	}{
		{
			name:     "single equality",
			node:     cms.Query("name", cms.OpEquals, "home"),
			expected: `name eq "home"`,
		},
		{
			name:     "contains",
			node:     cms.Query("title", cms.OpContains, "press release"),
			expected: `title co "press release"`,
		},
		{
			name:     "starts with",
			node:     cms.Query("slug", cms.OpStartsWith, "blog-"),
			expected: `slug sw "blog-"`,
		},
		{
			name:     "numeric comparison",
			node:     cms.Query("fields.priority", cms.OpGreaterOrEqual, cms.QueryInt(10)),
			expected: `fields.priority ge "10"`,
		},
		{
			name:     "boolean value",
			node:     cms.Query("translatable", cms.OpEquals, cms.QueryBool(true)),
			expected: `translatable eq "true"`,
		},
		{
			name: "and chains left to right",
			node: cms.Query("type", cms.OpEquals, "Article").
				And(cms.Query("language", cms.OpEquals, "en")).
				And(cms.Query("status", cms.OpEquals, "published")),
			expected: `type eq "Article" and language eq "en" and status eq "published"`,
		},
		{
			name: "or connective",
			node: cms.Query("language", cms.OpEquals, "en").
				Or(cms.Query("language", cms.OpEquals, "fr")),
			expected: `language eq "en" or language eq "fr"`,
		},
		{
			name: "explicit grouping",
			node: cms.Query("language", cms.OpEquals, "en").
				Or(cms.Query("language", cms.OpEquals, "fr")).
				Group().
				And(cms.Query("type", cms.OpEquals, "Article")),
			expected: `(language eq "en" or language eq "fr") and type eq "Article"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.node.String())
		})
	}
}

func TestQuery_NoImplicitPrecedence(t *testing.T) {
	t.Parallel()

	// Connectives serialize strictly in call order; the consumer adds
	// parentheses only through Group.
	node := cms.Query("a", cms.OpEquals, "1").
		And(cms.Query("b", cms.OpEquals, "2")).
		Or(cms.Query("c", cms.OpEquals, "3"))

	assert.Equal(t, `a eq "1" and b eq "2" or c eq "3"`, node.String())
}

func TestQueryNode_IsZero(t *testing.T) {
	t.Parallel()

	var zero cms.QueryNode

	assert.True(t, zero.IsZero())
	assert.False(t, cms.Query("a", cms.OpEquals, "1").IsZero())
}

func TestMatchList(t *testing.T) {
	t.Parallel()

	t.Run("multiple values become a grouped or-chain", func(t *testing.T) {
		t.Parallel()

		node, err := cms.MatchList("A", "1", "2", "3")
		require.NoError(t, err)
		assert.Equal(t, `(A eq "1" or A eq "2" or A eq "3")`, node.String())
	})

	t.Run("single value is still grouped", func(t *testing.T) {
		t.Parallel()

		node, err := cms.MatchList("slug", "home")
		require.NoError(t, err)
		assert.Equal(t, `(slug eq "home")`, node.String())
	})

	t.Run("empty value list is rejected", func(t *testing.T) {
		t.Parallel()

		node, err := cms.MatchList("slug")
		require.ErrorIs(t, err, cms.ErrEmptyMatchList)
		assert.True(t, node.IsZero())
	})
}

func TestQueryValueHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-42", cms.QueryInt(-42))
	assert.Equal(t, "3.5", cms.QueryFloat(3.5))
	assert.Equal(t, "false", cms.QueryBool(false))

	date := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", cms.QueryDate(date, "2006-01-02"))
}
