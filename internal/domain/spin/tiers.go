package spin

// Tier is one slice of the daily spin wheel. Weights are relative; they do
// not need to sum to 100.
type Tier struct {
	Amount int64   `json:"amount"`
	Weight float64 `json:"-"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
}

// DefaultTiers is the production wheel. Ordered cheapest-first; the picker
// walks it in order, so the order is part of the draw semantics.
var DefaultTiers = []Tier{
	{Amount: 10, Weight: 30, Label: "10 Credits", Color: "#9ca3af"},
	{Amount: 25, Weight: 25, Label: "25 Credits", Color: "#60a5fa"},
	{Amount: 50, Weight: 22.5, Label: "50 Credits", Color: "#34d399"},
	{Amount: 100, Weight: 12, Label: "100 Credits", Color: "#fbbf24"},
	{Amount: 250, Weight: 6, Label: "250 Credits", Color: "#f97316"},
	{Amount: 500, Weight: 2.5, Label: "500 Credits", Color: "#ef4444"},
	{Amount: 1000, Weight: 1.2, Label: "1,000 Credits", Color: "#a855f7"},
	{Amount: 2500, Weight: 0.5, Label: "2,500 Credits", Color: "#ec4899"},
	{Amount: 5000, Weight: 0.25, Label: "5,000 Credits", Color: "#eab308"},
	{Amount: 10000, Weight: 0.05, Label: "10,000 Credits", Color: "#facc15"},
}
