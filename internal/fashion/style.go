package fashion

// Style is one of the 21 aesthetic categories a garment can belong to.
type Style int

const (
	StyleCasual Style = iota
	StyleClassyElegant
	StyleBusinessOffice
	StyleBusinessCasual
	StyleStreetwear
	StyleAthleisure
	StyleBohemian
	StyleMinimalist
	StylePreppy
	StyleGrunge
	StyleVintageRetro
	StyleY2K
	StyleEdgyPunk
	StyleGoth
	StyleChic
	StyleRomantic
	StyleCottagecore
	StyleArtsyEclectic
	StyleAvantGarde
	StyleResortCruise
	StyleEveningFormal

	numStyles = iota
)

var styleNames = [numStyles]string{
	StyleCasual:         "casual",
	StyleClassyElegant:  "classy-elegant",
	StyleBusinessOffice: "business-office",
	StyleBusinessCasual: "business-casual",
	StyleStreetwear:     "streetwear",
	StyleAthleisure:     "athleisure",
	StyleBohemian:       "bohemian",
	StyleMinimalist:     "minimalist",
	StylePreppy:         "preppy",
	StyleGrunge:         "grunge",
	StyleVintageRetro:   "vintage-retro",
	StyleY2K:            "y2k",
	StyleEdgyPunk:       "edgy-punk",
	StyleGoth:           "goth",
	StyleChic:           "chic",
	StyleRomantic:       "romantic",
	StyleCottagecore:    "cottagecore",
	StyleArtsyEclectic:  "artsy-eclectic",
	StyleAvantGarde:     "avant-garde",
	StyleResortCruise:   "resort-cruise",
	StyleEveningFormal:  "evening-formal",
}

func (s Style) String() string {
	if s < 0 || int(s) >= numStyles {
		return "unknown"
	}
	return styleNames[s]
}

// Styles returns the full 21-entry style vocabulary.
func Styles() []Style {
	out := make([]Style, numStyles)
	for i := range out {
		out[i] = Style(i)
	}
	return out
}

// styleTable is the static garment-to-style mapping. It is constructed once
// and never mutated; StylesFor hands out copies. Garments absent from the
// table classify to no styles, which is a valid result rather than an error.
var styleTable = map[Garment][]Style{
	GarmentShirt:       {StyleCasual},
	GarmentTShirt:      {StyleCasual, StyleStreetwear},
	GarmentButtonShirt: {StyleBusinessOffice, StyleClassyElegant, StyleBusinessCasual},
	GarmentPolo:        {StyleCasual, StyleBusinessCasual, StylePreppy},
	GarmentHoodie:      {StyleCasual, StyleStreetwear},
	GarmentSweater:     {StyleCasual, StyleBusinessCasual},
	GarmentBlazer:      {StyleBusinessOffice, StyleClassyElegant, StylePreppy},
	GarmentJacket:      {StyleCasual},
	GarmentCoat:        {StyleCasual, StyleClassyElegant},
	GarmentBlouse:      {StyleClassyElegant, StyleBusinessOffice, StyleBusinessCasual},
	GarmentCropTop:     {StyleY2K, StyleStreetwear},
	GarmentTubeTop:     {StyleCasual},

	GarmentPants:       {StyleCasual},
	GarmentJeans:       {StyleCasual},
	GarmentCargoPants:  {StyleCasual, StyleStreetwear},
	GarmentDressPants:  {StyleBusinessOffice, StyleClassyElegant, StyleBusinessCasual},
	GarmentChinos:      {StyleCasual, StyleBusinessCasual, StylePreppy},
	GarmentShorts:      {StyleCasual},
	GarmentCargoShorts: {StyleCasual},
	GarmentSkirt:       {StyleCasual, StyleRomantic},
	GarmentLeggings:    {StyleAthleisure},
	GarmentJoggers:     {StyleCasual, StyleStreetwear, StyleAthleisure},

	GarmentDress:         {StyleClassyElegant, StyleEveningFormal},
	GarmentMaxiDress:     {StyleBohemian, StyleResortCruise},
	GarmentMiniDress:     {StyleClassyElegant, StyleY2K},
	GarmentCocktailDress: {StyleClassyElegant, StyleEveningFormal},

	GarmentShoes:    {StyleCasual},
	GarmentSneakers: {StyleCasual, StyleStreetwear, StyleAthleisure},
	GarmentBoots:    {StyleCasual, StyleGrunge},
	GarmentLoafers:  {StyleClassyElegant, StyleBusinessCasual, StylePreppy},
	GarmentHeels:    {StyleClassyElegant, StyleEveningFormal},
	GarmentSandals:  {StyleCasual, StyleBohemian, StyleResortCruise},

	GarmentHat:  {StyleCasual, StyleStreetwear},
	GarmentBag:  {StyleCasual},
	GarmentBelt: {StyleCasual},
}

// StylesFor returns the style tags applicable to a garment, in table order.
// Unknown garments yield an empty, non-nil slice.
func StylesFor(g Garment) []Style {
	styles, ok := styleTable[g]
	if !ok {
		return []Style{}
	}
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// StyleNames renders a style list to its wire form.
func StyleNames(styles []Style) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.String()
	}
	return out
}
