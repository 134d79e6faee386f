// Package local contains the built-in simulation backend. It implements
// the same driven ports as the HTTP adapters over a small fixed catalog,
// so the whole system runs without a remote service.
package local

import "github.com/curio-labs/searchlab-core/internal/core/domain"

// catalog is the fixed demo product set. Scores are filled in per query.
var catalog = []domain.SearchItem{
	{
		ID:          "001",
		Name:        "Diamond Solitaire Ring",
		Description: "Classic round brilliant diamond set in 18k white gold. Timeless elegance for engagements.",
		Price:       4999.00,
		ImageURL:    "https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=400&h=400&fit=crop",
		Category:    "Rings",
	},
	{
		ID:          "002",
		Name:        "Gold Chain Necklace",
		Description: "14k yellow gold Cuban link chain. Bold statement piece for everyday wear.",
		Price:       1299.00,
		ImageURL:    "https://images.unsplash.com/photo-1599643478518-a784e5dc4c8f?w=400&h=400&fit=crop",
		Category:    "Necklaces",
	},
	{
		ID:          "003",
		Name:        "Pearl Drop Earrings",
		Description: "Freshwater pearls with sterling silver hooks. Elegant and sophisticated.",
		Price:       299.00,
		ImageURL:    "https://images.unsplash.com/photo-1535632066927-ab7c9ab60908?w=400&h=400&fit=crop",
		Category:    "Earrings",
	},
	{
		ID:          "004",
		Name:        "Silver Tennis Bracelet",
		Description: "Sterling silver with cubic zirconia stones. Sparkle for any occasion.",
		Price:       449.00,
		ImageURL:    "https://images.unsplash.com/photo-1611591437281-460bfbe1220a?w=400&h=400&fit=crop",
		Category:    "Bracelets",
	},
	{
		ID:          "005",
		Name:        "Vintage Emerald Ring",
		Description: "Art deco inspired emerald ring with diamond accents in platinum setting.",
		Price:       3799.00,
		ImageURL:    "https://images.unsplash.com/photo-1551406483-3731d1997540?w=400&h=400&fit=crop",
		Category:    "Rings",
		Badge:       "VINTAGE",
	},
	{
		ID:          "006",
		Name:        "Rose Gold Pendant",
		Description: "Delicate heart-shaped pendant in 14k rose gold with diamond accent.",
		Price:       599.00,
		ImageURL:    "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?w=400&h=400&fit=crop",
		Category:    "Necklaces",
	},
	{
		ID:          "007",
		Name:        "Sapphire Stud Earrings",
		Description: "Blue sapphire studs set in white gold. Deep color, brilliant sparkle.",
		Price:       899.00,
		ImageURL:    "https://images.unsplash.com/photo-1588444650733-d0b6271cfc55?w=400&h=400&fit=crop",
		Category:    "Earrings",
	},
	{
		ID:          "008",
		Name:        "Men's Signet Ring",
		Description: "Classic gold signet ring with customizable engraving surface.",
		Price:       799.00,
		ImageURL:    "https://images.unsplash.com/photo-1573408301185-9146fe634ad0?w=400&h=400&fit=crop",
		Category:    "Rings",
	},
}

// Catalog returns a copy of the demo product set
func Catalog() []domain.SearchItem {
	return append([]domain.SearchItem(nil), catalog...)
}
