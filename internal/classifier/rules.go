package classifier

import "github.com/leapstack-labs/leapdash/pkg/core"

// Shape selects which dataset generator fills a rule's chart data.
type Shape int

// Dataset shapes.
const (
	ShapeCategories Shape = iota
	ShapeTimeSeries
	ShapeProportions
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTimeSeries:
		return "time-series"
	case ShapeCategories:
		return "categories"
	case ShapeProportions:
		return "proportions"
	default:
		return "unknown"
	}
}

// Rule is one ordered keyword-matching clause of the dispatch table.
type Rule struct {
	Name        string
	Keywords    []string
	Chart       core.ChartType
	Shape       Shape
	Months      int      // time-series length, ShapeTimeSeries only
	Labels      []string // category or segment labels
	Title       string
	Description string
	Insights    []string
}

// defaultRules is the topic table. Order is authoritative: the first rule
// with a matching keyword wins.
var defaultRules = []Rule{
	{
		Name:        "revenue",
		Keywords:    []string{"revenue", "sales"},
		Chart:       core.ChartLine,
		Shape:       ShapeTimeSeries,
		Months:      12,
		Title:       "Monthly Revenue",
		Description: "Monthly revenue over the last year shows seasonal variations with peak performance in Q4.",
		Insights: []string{
			"Revenue grew by 15% year-over-year",
			"December had the highest monthly revenue",
			"Q3 showed unexpected decline in sales",
		},
	},
	{
		Name:        "products",
		Keywords:    []string{"product", "selling"},
		Chart:       core.ChartBar,
		Shape:       ShapeCategories,
		Labels:      []string{"Electronics", "Clothing", "Home Goods", "Sports", "Beauty"},
		Title:       "Top Selling Products",
		Description: "Electronics continues to be our best-performing product category.",
		Insights: []string{
			"Electronics represents 32% of total sales",
			"Beauty products have the highest profit margin",
			"Sports equipment sales increased 24% over last quarter",
		},
	},
	{
		Name:        "regions",
		Keywords:    []string{"region", "performance"},
		Chart:       core.ChartBar,
		Shape:       ShapeCategories,
		Labels:      []string{"North America", "Europe", "Asia", "South America", "Australia"},
		Title:       "Regional Performance",
		Description: "North America and Asia are our strongest markets with Europe showing growth potential.",
		Insights: []string{
			"North America accounts for 45% of total revenue",
			"Asia showing fastest growth at 28% YoY",
			"European market underperforming by 12% compared to targets",
		},
	},
	{
		Name:        "retention",
		Keywords:    []string{"retention", "customer"},
		Chart:       core.ChartPie,
		Shape:       ShapeProportions,
		Labels:      []string{"Loyal (>3y)", "Regular (1-3y)", "New (<1y)", "At Risk", "Churned"},
		Title:       "Customer Retention Analysis",
		Description: "Our customer base is healthy with strong retention of loyal customers.",
		Insights: []string{
			"Loyal customer segment grew by 8% this year",
			"Churn rate decreased to 12% from 15% last year",
			"New customer acquisition cost decreased by 7%",
		},
	},
	{
		Name:        "marketing",
		Keywords:    []string{"marketing", "campaign", "roi"},
		Chart:       core.ChartBar,
		Shape:       ShapeCategories,
		Labels:      []string{"Social Media", "Email", "Search", "Display Ads", "Content Marketing"},
		Title:       "Marketing Campaign ROI",
		Description: "Email campaigns continue to provide the highest ROI among marketing channels.",
		Insights: []string{
			"Email marketing ROI: 420%",
			"Social media campaigns reached 2.4M new users",
			"Content marketing driving 34% more organic traffic",
		},
	},
}

// fallbackRule answers queries that match no topic.
var fallbackRule = Rule{
	Name:        "default",
	Chart:       core.ChartBar,
	Shape:       ShapeCategories,
	Labels:      []string{"Category A", "Category B", "Category C", "Category D"},
	Title:       "Analysis Results",
	Description: "Here are the results based on your query.",
}

func (r Rule) clone() Rule {
	out := r
	out.Keywords = append([]string(nil), r.Keywords...)
	out.Labels = append([]string(nil), r.Labels...)
	if r.Insights != nil {
		out.Insights = append([]string(nil), r.Insights...)
	}
	return out
}
