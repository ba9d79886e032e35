package domain

import (
	"strconv"
	"strings"
)

// CategoryAll is the synthetic category that matches every provider.
const CategoryAll = "all"

// Category is a fixed service category.
// Count is nil until the server-reported counts have been merged in.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Count *int
}

// CountLabel returns the count as text, or "…" while counts are unknown.
func (c Category) CountLabel() string {
	if c.Count == nil {
		return "…"
	}
	return strconv.Itoa(*c.Count)
}

// DefaultCategories returns the fixed category list, "all" first.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryAll, Name: "All Services", Icon: "◎"},
		{ID: "plumbers", Name: "Plumbers", Icon: "🔧"},
		{ID: "tuitions", Name: "Tuitions", Icon: "📚"},
		{ID: "electricians", Name: "Electricians", Icon: "⚡"},
		{ID: "painters", Name: "Painters", Icon: "🎨"},
		{ID: "mechanics", Name: "Mechanics", Icon: "🚗"},
		{ID: "salon", Name: "Salon", Icon: "✂"},
		{ID: "doctors", Name: "Doctors", Icon: "🩺"},
		{ID: "catering", Name: "Catering", Icon: "🍲"},
		{ID: "photography", Name: "Photography", Icon: "📷"},
	}
}

// FindCategory looks up a category by id or name, case-insensitively.
func FindCategory(categories []Category, key string) (Category, bool) {
	key = strings.TrimSpace(key)
	for _, c := range categories {
		if strings.EqualFold(c.ID, key) || strings.EqualFold(c.Name, key) {
			return c, true
		}
	}
	return Category{}, false
}

// MergeCounts returns a copy of categories with Count filled from counts.
//
// Each category takes the count whose key matches its id or name case-insensitively,
// or zero when the server did not mention it. The "all" category takes the sum of
// every returned count. A nil counts map leaves every Count unset.
func MergeCounts(categories []Category, counts map[string]int) []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	if counts == nil {
		for i := range out {
			out[i].Count = nil
		}
		return out
	}

	total := 0
	lowered := make(map[string]int, len(counts))
	for k, v := range counts {
		total += v
		lowered[strings.ToLower(strings.TrimSpace(k))] += v
	}

	for i := range out {
		var n int
		if out[i].ID == CategoryAll {
			n = total
		} else if v, ok := lowered[strings.ToLower(out[i].ID)]; ok {
			n = v
		} else {
			n = lowered[strings.ToLower(out[i].Name)]
		}
		out[i].Count = &n
	}
	return out
}
