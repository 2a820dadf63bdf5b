package entities

// CategoryAll is the pseudo category meaning "no category filter".
const CategoryAll = "all"

type Category struct {
	ID    string
	Label string
	Color string // lipgloss color code used by the terminal shell
}

var Categories = []Category{
	{ID: "stocks", Label: "Stocks", Color: "33"},
	{ID: "crypto", Label: "Crypto", Color: "208"},
	{ID: "funds", Label: "Funds", Color: "42"},
	{ID: "economy", Label: "Economy", Color: "135"},
	{ID: "markets", Label: "Markets", Color: "205"},
	{ID: "analyses", Label: "Analyses", Color: "45"},
}

// LookupCategory finds a category by id. Unknown ids yield ok == false.
func LookupCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsCategory reports whether id names one of the fixed categories.
func IsCategory(id string) bool {
	_, ok := LookupCategory(id)
	return ok
}

// CategoryLabel returns the display label, or the raw id when unknown.
func CategoryLabel(id string) string {
	if c, ok := LookupCategory(id); ok {
		return c.Label
	}
	return id
}
