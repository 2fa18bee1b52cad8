// Package taxonomy holds the fixed category reference data the classifier
// resolves against: main categories with keyword-bearing subcategories, an
// exact-phrase shortcut map for high-frequency words, and the heuristic word
// lists for food and transport detection.
//
// The data is immutable after construction. Declaration order matters:
// keyword matching walks categories in the order they appear here, so
// earlier categories win ties.
package taxonomy

import "strings"

// Main category names.
const (
	FoodAndDrinks  = "Food & Drinks"
	Transport      = "Transport"
	Shopping       = "Shopping"
	Entertainment  = "Entertainment"
	Health         = "Health"
	BillsUtilities = "Bills & Utilities"
	Miscellaneous  = "Miscellaneous"
)

// Subcategory is a named keyword group under a main category.
type Subcategory struct {
	Name     string
	Keywords []string
}

// MainCategory is a main category with its ordered subcategories.
type MainCategory struct {
	Name string
	Subs []Subcategory
}

// Taxonomy is the full reference data set.
type Taxonomy struct {
	Categories []MainCategory
	exact      map[string]Entry
}

// Entry is a resolved (category, subcategory) pair.
type Entry struct {
	Category    string
	Subcategory string
}

// New returns the built-in taxonomy.
func New() *Taxonomy {
	t := &Taxonomy{Categories: categories}
	t.exact = make(map[string]Entry, len(exactPhrases))
	for phrase, e := range exactPhrases {
		t.exact[phrase] = e
	}
	return t
}

// Exact looks up a lowercase-trimmed phrase in the shortcut map.
func (t *Taxonomy) Exact(phrase string) (Entry, bool) {
	e, ok := t.exact[strings.ToLower(strings.TrimSpace(phrase))]
	return e, ok
}

// MainNames lists the main category names in declaration order.
func (t *Taxonomy) MainNames() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// Subcategories returns the subcategory names of a main category, matched
// case-insensitively. Nil when the main category is unknown.
func (t *Taxonomy) Subcategories(main string) []string {
	for _, c := range t.Categories {
		if strings.EqualFold(c.Name, main) {
			names := make([]string, len(c.Subs))
			for i, s := range c.Subs {
				names[i] = s.Name
			}
			return names
		}
	}
	return nil
}

// categories is the declaration-ordered keyword taxonomy. Later categories
// never shadow earlier ones for overlapping keywords.
var categories = []MainCategory{
	{Name: FoodAndDrinks, Subs: []Subcategory{
		{Name: "Meals", Keywords: []string{
			"food", "meal", "lunch", "dinner", "breakfast", "pizza", "burger", "sushi",
			"restaurant", "sandwich", "tacos", "pasta", "salad", "chicken", "beef",
			"seafood", "rice", "bread", "meat", "fish",
		}},
		{Name: "Snacks", Keywords: []string{
			"snack", "chips", "cookies", "candy", "chocolate", "popcorn", "nuts",
			"crackers", "fruit",
		}},
		{Name: "Drinks/Coffee", Keywords: []string{
			"coffee", "latte", "espresso", "cappuccino", "starbucks",
		}},
		{Name: "Drinks/Soda", Keywords: []string{
			"coke", "soda", "pepsi", "sprite", "fanta",
		}},
		{Name: "Drinks/Beer", Keywords: []string{
			"beer", "alcohol", "wine", "drinks", "bar",
		}},
		{Name: "Groceries", Keywords: []string{
			"groceries", "supermarket", "market", "store", "walmart", "target",
		}},
	}},
	{Name: Transport, Subs: []Subcategory{
		{Name: "Taxis", Keywords: []string{
			"taxi", "uber", "lyft", "cab", "ride", "didi",
		}},
		{Name: "Fuel", Keywords: []string{
			"gas", "fuel", "petrol", "diesel",
		}},
		{Name: "Public", Keywords: []string{
			"bus", "metro", "subway", "train", "transit", "transport",
		}},
	}},
	{Name: Shopping, Subs: []Subcategory{
		{Name: "Clothing", Keywords: []string{
			"clothes", "clothing", "shirt", "pants", "shoes", "dress", "jacket",
		}},
		{Name: "Electronics", Keywords: []string{
			"electronics", "phone", "computer", "laptop", "gadget", "device",
		}},
	}},
	{Name: Entertainment, Subs: []Subcategory{
		{Name: "Games", Keywords: []string{
			"game", "gaming", "playstation", "xbox", "nintendo", "steam",
		}},
		{Name: "Movies", Keywords: []string{
			"movie", "netflix", "cinema", "hulu", "disney", "theater",
		}},
		{Name: "Music", Keywords: []string{
			"concert", "music", "spotify", "show", "festival", "ticket",
		}},
	}},
	{Name: Health, Subs: []Subcategory{
		{Name: "Medical", Keywords: []string{
			"doctor", "hospital", "medicine", "medical", "clinic",
		}},
		{Name: "Pharmacy", Keywords: []string{
			"pharmacy", "drugstore",
		}},
		{Name: "Fitness", Keywords: []string{
			"gym", "fitness", "workout",
		}},
	}},
	{Name: BillsUtilities, Subs: []Subcategory{
		{Name: "Electricity", Keywords: []string{
			"electricity", "power", "electric", "energy",
		}},
		{Name: "Water", Keywords: []string{
			"water", "utilities", "utility",
		}},
		{Name: "Internet & Phone", Keywords: []string{
			"internet", "mobile", "wifi", "data", "broadband",
		}},
	}},
	{Name: Miscellaneous, Subs: []Subcategory{
		{Name: "Gifts", Keywords: []string{
			"gift", "present",
		}},
		{Name: "Subscriptions", Keywords: []string{
			"subscription", "membership",
		}},
	}},
}

// exactPhrases short-circuits classification for high-frequency single words.
var exactPhrases = map[string]Entry{
	"food":        {FoodAndDrinks, "Meals"},
	"meal":        {FoodAndDrinks, "Meals"},
	"lunch":       {FoodAndDrinks, "Meals"},
	"dinner":      {FoodAndDrinks, "Meals"},
	"breakfast":   {FoodAndDrinks, "Meals"},
	"snack":       {FoodAndDrinks, "Snacks"},
	"coffee":      {FoodAndDrinks, "Drinks/Coffee"},
	"coke":        {FoodAndDrinks, "Drinks/Soda"},
	"beer":        {FoodAndDrinks, "Drinks/Beer"},
	"taxi":        {Transport, "Taxis"},
	"uber":        {Transport, "Taxis"},
	"gas":         {Transport, "Fuel"},
	"fuel":        {Transport, "Fuel"},
	"bus":         {Transport, "Public"},
	"metro":       {Transport, "Public"},
	"game":        {Entertainment, "Games"},
	"movie":       {Entertainment, "Movies"},
	"netflix":     {Entertainment, "Movies"},
	"concert":     {Entertainment, "Music"},
	"clothes":     {Shopping, "Clothing"},
	"clothing":    {Shopping, "Clothing"},
	"electronics": {Shopping, "Electronics"},
	"groceries":   {FoodAndDrinks, "Groceries"},
	"supermarket": {FoodAndDrinks, "Groceries"},
	"electricity": {BillsUtilities, "Electricity"},
	"water":       {BillsUtilities, "Water"},
	"internet":    {BillsUtilities, "Internet & Phone"},
	"phone":       {BillsUtilities, "Internet & Phone"},
	"gift":        {Miscellaneous, "Gifts"},
	"health":      {Health, "Medical"},
	"medicine":    {Health, "Medical"},
	"subscription": {Miscellaneous, "Subscriptions"},
}

// foodIndicators feed the heuristic food detector: meal types, cuisines from
// several regions, eating places, cooking verbs.
var foodIndicators = []string{
	"food", "meal", "dish", "cuisine", "restaurant", "diner",
	"pizza", "burger", "sandwich", "pasta", "rice", "noodles",
	"empanada", "taco", "burrito", "arepa", "pupusa", "tamale",
	"milanesa", "churrasco", "ceviche", "chimichurri", "asado",
	"enchilada", "fajita", "quesadilla", "torta", "chilaquiles",
	"risotto", "paella", "schnitzel",
	"bratwurst", "pierogi", "goulash", "croissant",
	"sushi", "ramen", "curry", "dimsum", "pho", "pad thai",
	"tempura", "sashimi", "udon", "bibimbap", "dumpling",
	"kebab", "falafel", "hummus", "shawarma", "pita",
	"breakfast", "lunch", "dinner", "brunch", "snack",
	"meat", "chicken", "beef", "pork", "fish", "vegetable",
	"steak", "pollo", "carne", "pescado", "verdura",
	"cafe", "bakery", "deli", "cafeteria",
	"bistro", "bar", "pub", "fonda", "cantina",
	"fried", "baked", "grilled", "roasted", "steamed",
	"frito", "horneado", "cocido",
	"eat", "appetizer",
	"comida", "almuerzo", "cena", "merienda", "plato",
}

// foodSuffixes catch dish-name endings across languages ("empanada",
// "burrito", "milanesa", any soup or burger).
var foodSuffixes = []string{
	"ada", "ito", "esa", "soup", "pie", "bread", "roll",
	"burger", "steak", "sopa", "guiso",
}

// transportWords feed the heuristic transport detector.
var transportWords = []string{
	"transport", "travel", "ride", "vehicle", "car", "bus", "train",
	"taxi", "uber", "lyft", "cab", "metro", "subway", "bike",
}

// IsFoodRelated reports whether the text looks like food by indicator words
// (containment both ways) or dish-name suffixes.
func IsFoodRelated(text string) bool {
	word := strings.ToLower(strings.TrimSpace(text))
	for _, ind := range foodIndicators {
		if strings.Contains(word, ind) || strings.Contains(ind, word) {
			return true
		}
	}
	for _, suffix := range foodSuffixes {
		if strings.HasSuffix(word, suffix) {
			return true
		}
	}
	return false
}

// IsTransportRelated reports whether the text looks transport-related.
func IsTransportRelated(text string) bool {
	word := strings.ToLower(strings.TrimSpace(text))
	for _, tw := range transportWords {
		if strings.Contains(word, tw) || strings.Contains(tw, word) {
			return true
		}
	}
	return false
}

// MentionsFuel reports whether the text mentions gas or fuel, used to pick
// the Fuel subcategory inside the transport heuristic.
func MentionsFuel(text string) bool {
	word := strings.ToLower(text)
	return strings.Contains(word, "gas") || strings.Contains(word, "fuel") ||
		strings.Contains(word, "petrol") || strings.Contains(word, "diesel")
}
