package media

// SubtitleStyle is a fixed visual preset for burned-in captions, expressed
// as libass style overrides. Values are a lookup table, never computed.
type SubtitleStyle struct {
	Name       string
	FontName   string
	FontSize   int
	PrimaryHex string // &HAABBGGRR libass colour
	OutlineHex string
	Outline    int
	Shadow     int
	Bold       int
	Alignment  int // 2 = bottom-center, 5 = middle-center
}

var subtitleStyles = map[string]SubtitleStyle{
	"classic": {
		Name: "classic", FontName: "Arial", FontSize: 14,
		PrimaryHex: "&H00FFFFFF", OutlineHex: "&H00000000",
		Outline: 2, Shadow: 1, Bold: 0, Alignment: 2,
	},
	"bold": {
		Name: "bold", FontName: "Arial Black", FontSize: 16,
		PrimaryHex: "&H00FFFFFF", OutlineHex: "&H00000000",
		Outline: 3, Shadow: 0, Bold: 1, Alignment: 2,
	},
	"neon": {
		Name: "neon", FontName: "Verdana", FontSize: 15,
		PrimaryHex: "&H0000FFFF", OutlineHex: "&H00800080",
		Outline: 2, Shadow: 2, Bold: 1, Alignment: 2,
	},
	"minimal": {
		Name: "minimal", FontName: "Helvetica", FontSize: 12,
		PrimaryHex: "&H00FFFFFF", OutlineHex: "&H40000000",
		Outline: 1, Shadow: 0, Bold: 0, Alignment: 5,
	},
}

// StyleByName resolves a preset; unknown names get the classic preset so a
// bad request never breaks rendering.
func StyleByName(name string) SubtitleStyle {
	if s, ok := subtitleStyles[name]; ok {
		return s
	}
	return subtitleStyles["classic"]
}
