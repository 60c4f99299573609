package fashion

import "strings"

// Garment is a closed enumeration of the clothing types the pipeline can
// report. It covers both raw detector labels (shirt, pants) and the refined
// types the label normalizer can map them to (button-shirt, cargo-pants).
type Garment int

const (
	GarmentUnknown Garment = iota

	// Tops
	GarmentShirt
	GarmentTShirt
	GarmentButtonShirt
	GarmentPolo
	GarmentHoodie
	GarmentSweater
	GarmentBlazer
	GarmentJacket
	GarmentCoat
	GarmentBlouse
	GarmentCropTop
	GarmentTubeTop

	// Bottoms
	GarmentPants
	GarmentJeans
	GarmentCargoPants
	GarmentDressPants
	GarmentChinos
	GarmentShorts
	GarmentCargoShorts
	GarmentSkirt
	GarmentLeggings
	GarmentJoggers

	// Dresses
	GarmentDress
	GarmentMaxiDress
	GarmentMiniDress
	GarmentCocktailDress

	// Footwear
	GarmentShoes
	GarmentSneakers
	GarmentBoots
	GarmentLoafers
	GarmentHeels
	GarmentSandals

	// Accessories
	GarmentHat
	GarmentBag
	GarmentBelt
)

var garmentNames = map[Garment]string{
	GarmentShirt:         "shirt",
	GarmentTShirt:        "t-shirt",
	GarmentButtonShirt:   "button-shirt",
	GarmentPolo:          "polo",
	GarmentHoodie:        "hoodie",
	GarmentSweater:       "sweater",
	GarmentBlazer:        "blazer",
	GarmentJacket:        "jacket",
	GarmentCoat:          "coat",
	GarmentBlouse:        "blouse",
	GarmentCropTop:       "crop-top",
	GarmentTubeTop:       "tube-top",
	GarmentPants:         "pants",
	GarmentJeans:         "jeans",
	GarmentCargoPants:    "cargo-pants",
	GarmentDressPants:    "dress-pants",
	GarmentChinos:        "chinos",
	GarmentShorts:        "shorts",
	GarmentCargoShorts:   "cargo-shorts",
	GarmentSkirt:         "skirt",
	GarmentLeggings:      "leggings",
	GarmentJoggers:       "joggers",
	GarmentDress:         "dress",
	GarmentMaxiDress:     "maxi-dress",
	GarmentMiniDress:     "mini-dress",
	GarmentCocktailDress: "cocktail-dress",
	GarmentShoes:         "shoes",
	GarmentSneakers:      "sneakers",
	GarmentBoots:         "boots",
	GarmentLoafers:       "loafers",
	GarmentHeels:         "heels",
	GarmentSandals:       "sandals",
	GarmentHat:           "hat",
	GarmentBag:           "bag",
	GarmentBelt:          "belt",
}

var garmentsByName = func() map[string]Garment {
	m := make(map[string]Garment, len(garmentNames))
	for g, name := range garmentNames {
		m[name] = g
	}
	return m
}()

// labelAliases maps detector- and model-specific label spellings onto
// canonical garments.
var labelAliases = map[string]Garment{
	"tee":          GarmentTShirt,
	"tank top":     GarmentTShirt,
	"tank-top":     GarmentTShirt,
	"crop top":     GarmentCropTop,
	"tube top":     GarmentTubeTop,
	"button-up":    GarmentButtonShirt,
	"button shirt": GarmentButtonShirt,
	"dress shirt":  GarmentButtonShirt,
	"formal shirt": GarmentButtonShirt,
	"polo shirt":   GarmentPolo,
	"sweatshirt":   GarmentHoodie,
	"pullover":     GarmentHoodie,
	"jumper":       GarmentSweater,
	"cardigan":     GarmentSweater,
	"knitwear":     GarmentSweater,
	"sport coat":   GarmentBlazer,
	"suit jacket":  GarmentBlazer,
	"outerwear":    GarmentJacket,
	"denim pants":  GarmentJeans,
	"blue jeans":   GarmentJeans,
	"slacks":       GarmentDressPants,
	"trousers":     GarmentDressPants,
	"formal pants": GarmentDressPants,
	"khakis":       GarmentChinos,
	"short pants":  GarmentShorts,
	"tights":       GarmentLeggings,
	"yoga pants":   GarmentLeggings,
	"track pants":  GarmentJoggers,
	"sweatpants":   GarmentJoggers,
	"gown":         GarmentDress,
	"frock":        GarmentDress,
	"long dress":   GarmentMaxiDress,
	"short dress":  GarmentMiniDress,
	"party dress":  GarmentCocktailDress,
	"trainers":     GarmentSneakers,
	"high heels":   GarmentHeels,
	"pumps":        GarmentHeels,
	"flip-flops":   GarmentSandals,
	"slides":       GarmentSandals,
	"cap":          GarmentHat,
	"beanie":       GarmentHat,
	"handbag":      GarmentBag,
	"purse":        GarmentBag,
	"backpack":     GarmentBag,
}

// String returns the canonical wire name of the garment, or "unknown".
func (g Garment) String() string {
	if name, ok := garmentNames[g]; ok {
		return name
	}
	return "unknown"
}

// ParseGarment maps a canonical name onto its garment. It does not apply
// alias or fuzzy matching; use NormalizeLabel for raw detector output.
func ParseGarment(name string) (Garment, bool) {
	g, ok := garmentsByName[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// NormalizeLabel maps a raw detector label onto a garment. Exact canonical
// names win, then the alias table, then a coarse keyword fallback for labels
// the tables do not know. Labels with no plausible garment reading return
// GarmentUnknown.
func NormalizeLabel(label string) Garment {
	l := strings.ToLower(strings.TrimSpace(label))
	if g, ok := garmentsByName[l]; ok {
		return g
	}
	if g, ok := labelAliases[l]; ok {
		return g
	}
	switch {
	case strings.Contains(l, "shirt"), hasWord(l, "top"), strings.Contains(l, "blouse"):
		return GarmentShirt
	case strings.Contains(l, "jean"):
		return GarmentJeans
	case strings.Contains(l, "pant"), strings.Contains(l, "trouser"):
		return GarmentPants
	case strings.Contains(l, "dress"), strings.Contains(l, "gown"):
		return GarmentDress
	case strings.Contains(l, "shoe"), strings.Contains(l, "boot"), strings.Contains(l, "sneaker"):
		return GarmentShoes
	case strings.Contains(l, "jacket"), strings.Contains(l, "coat"):
		return GarmentJacket
	}
	return GarmentUnknown
}

// hasWord reports whether s contains w as a whole word, so that "crop top"
// matches "top" but "laptop" does not.
func hasWord(s, w string) bool {
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '-' || r == '_' }) {
		if field == w {
			return true
		}
	}
	return false
}

// KnownLabel reports whether a raw detector label belongs to the garment
// vocabulary. Detectors drop candidates whose label fails this check.
func KnownLabel(label string) bool {
	return NormalizeLabel(label) != GarmentUnknown
}

// Garments returns the full garment vocabulary in declaration order.
func Garments() []Garment {
	out := make([]Garment, 0, len(garmentNames))
	for g := GarmentShirt; g <= GarmentBelt; g++ {
		out = append(out, g)
	}
	return out
}
