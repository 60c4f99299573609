package colors

// namedColor is one entry of the fixed color-naming table. Entries follow
// the CSS color keywords so names stay recognizable to clients.
type namedColor struct {
	name    string
	r, g, b uint8
}

// namedColors is ordered and iterated in order, so nearest-name lookups are
// deterministic even between equidistant entries.
var namedColors = []namedColor{
	{"black", 0, 0, 0},
	{"white", 255, 255, 255},
	{"gray", 128, 128, 128},
	{"darkgray", 169, 169, 169},
	{"dimgray", 105, 105, 105},
	{"lightgray", 211, 211, 211},
	{"gainsboro", 220, 220, 220},
	{"whitesmoke", 245, 245, 245},
	{"silver", 192, 192, 192},

	{"red", 255, 0, 0},
	{"darkred", 139, 0, 0},
	{"firebrick", 178, 34, 34},
	{"crimson", 220, 20, 60},
	{"indianred", 205, 92, 92},
	{"salmon", 250, 128, 114},
	{"tomato", 255, 99, 71},
	{"maroon", 128, 0, 0},

	{"orange", 255, 165, 0},
	{"darkorange", 255, 140, 0},
	{"coral", 255, 127, 80},
	{"gold", 255, 215, 0},
	{"yellow", 255, 255, 0},
	{"khaki", 240, 230, 140},
	{"darkkhaki", 189, 183, 107},
	{"beige", 245, 245, 220},
	{"ivory", 255, 255, 240},

	{"green", 0, 128, 0},
	{"darkgreen", 0, 100, 0},
	{"lime", 0, 255, 0},
	{"limegreen", 50, 205, 50},
	{"forestgreen", 34, 139, 34},
	{"seagreen", 46, 139, 87},
	{"olive", 128, 128, 0},
	{"olivedrab", 107, 142, 35},
	{"palegreen", 152, 251, 152},
	{"teal", 0, 128, 128},

	{"blue", 0, 0, 255},
	{"darkblue", 0, 0, 139},
	{"navy", 0, 0, 128},
	{"mediumblue", 0, 0, 205},
	{"royalblue", 65, 105, 225},
	{"steelblue", 70, 130, 180},
	{"dodgerblue", 30, 144, 255},
	{"skyblue", 135, 206, 235},
	{"lightblue", 173, 216, 230},
	{"powderblue", 176, 224, 230},
	{"cadetblue", 95, 158, 160},
	{"cyan", 0, 255, 255},
	{"darkcyan", 0, 139, 139},
	{"turquoise", 64, 224, 208},

	{"purple", 128, 0, 128},
	{"indigo", 75, 0, 130},
	{"darkviolet", 148, 0, 211},
	{"mediumpurple", 147, 112, 219},
	{"plum", 221, 160, 221},
	{"violet", 238, 130, 238},
	{"magenta", 255, 0, 255},
	{"orchid", 218, 112, 214},
	{"lavender", 230, 230, 250},

	{"pink", 255, 192, 203},
	{"lightpink", 255, 182, 193},
	{"hotpink", 255, 105, 180},
	{"deeppink", 255, 20, 147},

	{"brown", 165, 42, 42},
	{"saddlebrown", 139, 69, 19},
	{"sienna", 160, 82, 45},
	{"chocolate", 210, 105, 30},
	{"peru", 205, 133, 63},
	{"tan", 210, 180, 140},
	{"rosybrown", 188, 143, 143},
	{"sandybrown", 244, 164, 96},
	{"wheat", 245, 222, 179},
	{"navajowhite", 255, 222, 173},
}

var exactNames = func() map[[3]uint8]string {
	m := make(map[[3]uint8]string, len(namedColors))
	for _, c := range namedColors {
		key := [3]uint8{c.r, c.g, c.b}
		if _, ok := m[key]; !ok {
			m[key] = c.name
		}
	}
	return m
}()

// Name returns the human-readable name of an RGB color: the exact table
// entry when one exists, otherwise the nearest entry by squared Euclidean
// distance in RGB space.
func Name(r, g, b uint8) string {
	if name, ok := exactNames[[3]uint8{r, g, b}]; ok {
		return name
	}

	best := namedColors[0].name
	bestDist := 1 << 30
	for _, c := range namedColors {
		dr := int(c.r) - int(r)
		dg := int(c.g) - int(g)
		db := int(c.b) - int(b)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = c.name
		}
	}
	return best
}
