package classifier

import (
	"testing"
	"time"

	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier() *Classifier {
	clk := clock.NewFixed(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	return New(dataset.New(dataset.WithClock(clk)))
}

func names(data []core.DataPoint) []string {
	out := make([]string, len(data))
	for i, p := range data {
		out[i] = p.Name
	}
	return out
}

func TestClassify_Topics(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name      string
		query     string
		wantRule  string
		wantType  core.ChartType
		wantTitle string
		wantLen   int
	}{
		{"revenue", "Show me monthly revenue for the last year", "revenue", core.ChartLine, "Monthly Revenue", 12},
		{"sales keyword", "total sales", "revenue", core.ChartLine, "Monthly Revenue", 12},
		{"products", "What were our top selling products last quarter?", "products", core.ChartBar, "Top Selling Products", 5},
		{"regions", "Compare across every region", "regions", core.ChartBar, "Regional Performance", 5},
		{"retention", "What is our customer retention rate?", "retention", core.ChartPie, "Customer Retention Analysis", 5},
		{"marketing", "Show me marketing campaign ROI", "marketing", core.ChartBar, "Marketing Campaign ROI", 5},
		{"roi only", "roi by channel", "marketing", core.ChartBar, "Marketing Campaign ROI", 5},
		{"fallback", "hello world", "default", core.ChartBar, "Analysis Results", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRule, c.Match(tt.query).Name)

			got, err := c.Classify(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Len(t, got.Data, tt.wantLen)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestClassify_Precedence(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		query string
		want  string
	}{
		// "sales" is tested before "performance"
		{"Compare sales performance across regions", "revenue"},
		// "selling" is tested before "customer"
		{"best selling items per customer", "products"},
		// "performance" is tested before "campaign"
		{"campaign performance", "regions"},
		// "customer" is tested before "marketing"
		{"customer marketing", "retention"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.query).Name)
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := newTestClassifier()

	for _, q := range []string{"REVENUE", "Revenue", "rEvEnUe trend"} {
		assert.Equal(t, "revenue", c.Match(q).Name, q)
	}
}

func TestClassify_Substring(t *testing.T) {
	c := newTestClassifier()

	// No tokenization: keywords match inside longer words.
	assert.Equal(t, "products", c.Match("productivity").Name)
	assert.Equal(t, "marketing", c.Match("heroism").Name)
}

func TestClassify_RevenueSeriesIsChronological(t *testing.T) {
	c := newTestClassifier()

	got, err := c.Classify("revenue")
	require.NoError(t, err)

	require.Len(t, got.Data, 12)
	assert.Equal(t, "Apr 2025", got.Data[0].Name)
	assert.Equal(t, "Mar 2026", got.Data[11].Name)
	for _, p := range got.Data {
		assert.GreaterOrEqual(t, p.Value, float64(dataset.TimeSeriesMin))
		assert.Less(t, p.Value, float64(dataset.TimeSeriesMax))
	}
}

func TestClassify_Labels(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		query string
		want  []string
	}{
		{"products", []string{"Electronics", "Clothing", "Home Goods", "Sports", "Beauty"}},
		{"region", []string{"North America", "Europe", "Asia", "South America", "Australia"}},
		{"retention", []string{"Loyal (>3y)", "Regular (1-3y)", "New (<1y)", "At Risk", "Churned"}},
		{"campaign", []string{"Social Media", "Email", "Search", "Display Ads", "Content Marketing"}},
		{"anything else", []string{"Category A", "Category B", "Category C", "Category D"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.Classify(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got.Data))
		})
	}
}

func TestClassify_PieValuesInRange(t *testing.T) {
	c := newTestClassifier()

	got, err := c.Classify("customer")
	require.NoError(t, err)
	for _, p := range got.Data {
		assert.GreaterOrEqual(t, p.Value, float64(dataset.ProportionMin))
		assert.Less(t, p.Value, float64(dataset.ProportionMax))
	}
}

func TestClassify_Insights(t *testing.T) {
	c := newTestClassifier()

	for _, r := range c.Rules() {
		got, err := c.Classify(r.Keywords[0])
		require.NoError(t, err)
		assert.Len(t, got.Insights, 3, r.Name)
		assert.True(t, got.HasInsights())
	}

	got, err := c.Classify("nothing matches here")
	require.NoError(t, err)
	assert.Nil(t, got.Insights)
	assert.Equal(t, "Here are the results based on your query.", got.Description)
}

func TestRules_ReturnsCopy(t *testing.T) {
	c := newTestClassifier()

	rules := c.Rules()
	require.Len(t, rules, 5)
	rules[0].Keywords[0] = "mutated"
	rules[0].Title = "mutated"

	assert.Equal(t, "revenue", c.Rules()[0].Keywords[0])
	assert.Equal(t, "revenue", c.Match("revenue").Name)
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "time-series", ShapeTimeSeries.String())
	assert.Equal(t, "categories", ShapeCategories.String())
	assert.Equal(t, "proportions", ShapeProportions.String())
	assert.Equal(t, "unknown", Shape(42).String())
}
