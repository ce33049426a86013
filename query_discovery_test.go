package docscan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"zero gets defaults", Pagination{}, Pagination{Offset: 0, Limit: 50}},
		{"negative offset", Pagination{Offset: -3, Limit: 10}, Pagination{Offset: 0, Limit: 10}},
		{"negative limit", Pagination{Limit: -1}, Pagination{Limit: 50}},
		{"limit capped", Pagination{Offset: 5, Limit: 10000}, Pagination{Offset: 5, Limit: 500}},
		{"in range kept", Pagination{Offset: 7, Limit: 25}, Pagination{Offset: 7, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.normalize())
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `my\_class`, escapeLike("my_class"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

func TestNormalizePathPrefix(t *testing.T) {
	assert.Equal(t, "", normalizePathPrefix(""))
	assert.Equal(t, "src/", normalizePathPrefix("src"))
	assert.Equal(t, "src/", normalizePathPrefix("src/"))
}

func TestSearchClasses_AllWhenNoPattern(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedQueryFixture(t, s)

	for _, pattern := range []string{"", "*"} {
		res, err := q.SearchClasses(pattern, ClassFilter{}, Sort{}, Pagination{})
		require.NoError(t, err)
		assert.Equal(t, 4, res.TotalCount)
		assert.Equal(t, []string{"App", "Button", "Helper", "Legacy"}, classNames(res.Items))
	}
}

func TestSearchClasses_EmptyIndex(t *testing.T) {
	q, _ := newTestQueryBuilder(t)
	res, err := q.SearchClasses("*", ClassFilter{}, Sort{}, Pagination{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalCount)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestSearchClasses_Pattern(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedQueryFixture(t, s)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"B*", []string{"Button"}},
		{"*e*", []string{"Helper", "Legacy"}},
		{"b*", []string{"Button"}},
		{"App", []string{"App"}},
		{"Ap", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			res, err := q.SearchClasses(tt.pattern, ClassFilter{}, Sort{}, Pagination{})
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), res.TotalCount)
			if tt.want == nil {
				assert.Empty(t, res.Items)
				return
			}
			assert.Equal(t, tt.want, classNames(res.Items))
		})
	}
}

func TestSearchClasses_LiteralUnderscore(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	id := insertFile(t, s, "a.js", "javascript")
	insertClass(t, s, id, "my_widget", 1, RuleNone)
	insertClass(t, s, id, "myXwidget", 5, RuleNone)

	res, err := q.SearchClasses("my_*", ClassFilter{}, Sort{}, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"my_widget"}, classNames(res.Items))
}

func TestSearchClasses_Filters(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedQueryFixture(t, s)
	other := insertFile(t, s, "lib/Other.js", "javascript")
	insertClass(t, s, other, "Other", 1, RuleRenderMethod)
	old := insertFile(t, s, "src_old/Old.js", "javascript")
	insertClass(t, s, old, "Old", 1, RuleNone)

	tests := []struct {
		name   string
		filter ClassFilter
		want   []string
	}{
		{"components only", ClassFilter{ComponentsOnly: true}, []string{"App", "Button", "Legacy", "Other"}},
		{"rule", ClassFilter{Rule: RuleRenderMethod}, []string{"Button", "Other"}},
		{"language", ClassFilter{Language: "tsx"}, []string{"Button", "Legacy"}},
		{"path prefix", ClassFilter{PathPrefix: "src"}, []string{"App", "Button", "Helper", "Legacy"}},
		{"combined", ClassFilter{Rule: RuleRenderMethod, PathPrefix: "lib/"}, []string{"Other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := q.SearchClasses("", tt.filter, Sort{}, Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, classNames(res.Items))
			assert.Equal(t, len(tt.want), res.TotalCount)
		})
	}
}

func TestSearchClasses_Sort(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedQueryFixture(t, s)

	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"name desc", Sort{Field: SortByName, Order: Desc}, []string{"Legacy", "Helper", "Button", "App"}},
		{"file", Sort{Field: SortByFile}, []string{"App", "Helper", "Button", "Legacy"}},
		{"file desc", Sort{Field: SortByFile, Order: Desc}, []string{"Button", "Legacy", "App", "Helper"}},
		{"line", Sort{Field: SortByLine}, []string{"Button", "App", "Legacy", "Helper"}},
		// Non-components have an empty rule and sort first.
		{"rule", Sort{Field: SortByRule}, []string{"Helper", "Legacy", "Button", "App"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := q.SearchClasses("*", ClassFilter{}, tt.sort, Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, classNames(res.Items))
		})
	}
}

func TestSearchClasses_Pagination(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	id := insertFile(t, s, "many.js", "javascript")
	for i := range 7 {
		insertClass(t, s, id, fmt.Sprintf("C%d", i), i+1, RuleRenderMethod)
	}

	page1, err := q.SearchClasses("*", ClassFilter{}, Sort{}, Pagination{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, page1.TotalCount)
	assert.Equal(t, []string{"C0", "C1", "C2"}, classNames(page1.Items))

	page3, err := q.SearchClasses("*", ClassFilter{}, Sort{}, Pagination{Offset: 6, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, page3.TotalCount)
	assert.Equal(t, []string{"C6"}, classNames(page3.Items))

	past, err := q.SearchClasses("*", ClassFilter{}, Sort{}, Pagination{Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 7, past.TotalCount)
	assert.Empty(t, past.Items)
}

func TestListFiles(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedQueryFixture(t, s)
	insertFile(t, s, "lib/index.js", "javascript")

	res, err := q.ListFiles("", "", Asc, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalCount)
	require.Len(t, res.Items, 4)
	assert.Equal(t, "lib/index.js", res.Items[0].Path)
	assert.Equal(t, "lib", res.Items[0].ModuleKey)

	res, err = q.ListFiles("src", "", Desc, Pagination{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "src/util.ts", res.Items[0].Path)
	assert.Equal(t, "src/Button.tsx", res.Items[1].Path)

	res, err = q.ListFiles("", "javascript", Asc, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, "lib/index.js", res.Items[0].Path)
	assert.Equal(t, "src/App.js", res.Items[1].Path)
}
