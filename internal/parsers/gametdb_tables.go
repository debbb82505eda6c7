package parsers

import "regexp"

// GameTDB database file per catalog platform.
var gametdbPlatformFiles = map[string]string{
	"nds":  "dstdb.xml",
	"dsi":  "dstdb.xml",
	"wii":  "wiitdb.xml",
	"gc":   "wiitdb.xml",
	"3ds":  "3dstdb.xml",
	"n3ds": "3dstdb.xml",
	"wiiu": "wiiutdb.xml",
	"ps3":  "ps3tdb.xml",
}

// GameTDB game types per database file and the platform they belong to.
// Types missing from a table match any platform.
var gametdbTypePlatforms = map[string]map[string]string{
	"dstdb.xml": {
		"DS": "nds", "DSi": "dsi", "DSiWare": "dsi", "CUSTOM": "nds",
	},
	"wiitdb.xml": {
		"WiiWare": "wii", "VC-NES": "wii", "VC-SNES": "wii", "VC-N64": "wii",
		"VC-SMS": "wii", "VC-MD": "wii", "VC-PCE": "wii", "VC-NEOGEO": "wii",
		"VC-Arcade": "wii", "VC-C64": "wii", "VC-MSX": "wii", "Channel": "wii",
		"GameCube": "gc", "Homebrew": "wii", "CUSTOM": "wii",
	},
	"3dstdb.xml": {
		"3DS": "3ds", "None": "3ds", "3DSWare": "3ds", "New3DS": "n3ds",
		"New3DSWare": "n3ds", "VC-NES": "3ds", "VC-GB": "3ds", "VC-GBC": "3ds",
		"VC-GBA": "3ds", "VC-GG": "3ds", "CUSTOM": "3ds", "Homebrew": "3ds",
	},
	"wiiutdb.xml": {
		"WiiU": "wiiu", "eShop": "wiiu", "VC-NES": "wiiu", "VC-SNES": "wiiu",
		"VC-N64": "wiiu", "VC-GBA": "wiiu", "VC-DS": "wiiu", "VC-PCE": "wiiu",
		"VC-MSX": "wiiu", "Channel": "wiiu", "CUSTOM": "wiiu",
	},
	"ps3tdb.xml": {
		"PS3": "ps3", "CUSTOM": "ps3", "SEN": "ps3", "Homebrew": "ps3",
	},
}

// GameTDB region names and the catalog region they belong to.
var gametdbRegions = map[string]string{
	"NTSC-U": "us",
	"NTSC-J": "jp",
	"PAL":    "eu",
	"NTSC-K": "other",
	"NTSC-T": "other",
	"PAL-R":  "other",
	"NTSC-A": "other",
}

// Region code position inside a full GameTDB id, per database file.
var gametdbRegionCodePatterns = map[string]*regexp.Regexp{
	"dstdb.xml":   regexp.MustCompile(`^.{3}(.)`),
	"wiitdb.xml":  regexp.MustCompile(`^.{3}(.)`),
	"3dstdb.xml":  regexp.MustCompile(`^.{3}(.)`),
	"wiiutdb.xml": regexp.MustCompile(`^.{3}(.)`),
	"ps3tdb.xml":  regexp.MustCompile(`^([A-Z]{4})`),
}

// Country folders on the art host, in probe order.
var gametdbCountries = []string{
	"US", "EN", "JA", "FR", "DE", "ES", "IT", "NL", "PT", "NO", "FI", "SE",
	"ZH", "KO", "RU", "AU", "DK", "other",
}

type regionCountry struct {
	pattern *regexp.Regexp
	country string
}

func rc(pattern, country string) regionCountry {
	return regionCountry{pattern: regexp.MustCompile("^" + pattern), country: country}
}

// First country folder to try for a region code, per database file. The
// empty pattern is the fallback.
var gametdbRegionCountries = map[string][]regionCountry{
	"dstdb.xml": {
		rc("E", "US"), rc("J", "JA"), rc("K", "KO"), rc("D", "DE"), rc("F", "FR"),
		rc("H", "NL"), rc("I", "IT"), rc("S", "ES"), rc("Z", "SE"), rc("N", "NO"),
		rc("Q", "DK"), rc("M", "SE"), rc("G", "GR"), rc("T", "US"), rc("", "EN"),
	},
	"wiitdb.xml": {
		rc("E", "US"), rc("J", "JA"), rc("D", "DE"), rc("F", "FR"), rc("S", "ES"),
		rc("M", "SE"), rc("Y", "DE"), rc("K", "KO"), rc("H", "NL"), rc("I", "IT"),
		rc("Z", "ES"), rc("", "EN"),
	},
	"3dstdb.xml": {
		rc("J", "JA"), rc("E", "US"), rc("K", "KO"), rc("D", "DE"), rc("W", "ZH"),
		rc("I", "IT"), rc("H", "NL"), rc("V", "IT"), rc("", "EN"),
	},
	"wiiutdb.xml": {
		rc("E", "US"), rc("J", "JA"), rc("R", "RU"), rc("A", "JA"), rc("", "EN"),
	},
	"ps3tdb.xml": {
		rc("BCAS", "ZH"), rc("BCAX", "JA"), rc("BCJB", "JA"), rc("BCJN", "JA"),
		rc("BCJS", "JA"), rc("BCJX", "JA"), rc("BCKS", "KO"), rc("BCUS", "US"),
		rc("BLAS", "ZH"), rc("BLJB", "JA"), rc("BLJM", "JA"), rc("BLJS", "JA"),
		rc("BLKS", "KO"), rc("BLMJ", "JA"), rc("BLUS", "US"), rc("CPCS", "JA"),
		rc("HOP3", "JA"), rc("KTGS", "JA"), rc("XCUS", "US"), rc("..J.", "JA"),
		rc("..U.", "US"), rc("..H.", "US"), rc("", "EN"),
	},
}

// Part of a serial that forms the GameTDB id prefix, per platform. Every
// group is concatenated.
var gametdbSerialPatterns = map[string]*regexp.Regexp{
	"nds":  regexp.MustCompile(`(\w{4})`),
	"dsi":  regexp.MustCompile(`(\w{4})`),
	"wii":  regexp.MustCompile(`(\w{4})`),
	"gc":   regexp.MustCompile(`(\w{4})`),
	"3ds":  regexp.MustCompile(`(\w{4})`),
	"n3ds": regexp.MustCompile(`(\w{4})`),
	"wiiu": regexp.MustCompile(`(\w{6}|\w{4})`),
	"ps3":  regexp.MustCompile(`(\w{4}).*(\w{5})`),
}

// Cover image folder per platform on the art host.
var gametdbBoxartPaths = map[string]string{
	"nds":  "ds/coverS",
	"dsi":  "ds/coverS",
	"wii":  "wii/cover",
	"gc":   "wii/cover",
	"3ds":  "3ds/coverM",
	"n3ds": "3ds/coverM",
	"wiiu": "wiiu/coverM",
	"ps3":  "ps3/cover",
}

func gametdbImageExt(platformID string) string {
	switch platformID {
	case "3ds", "n3ds", "wiiu", "ps3":
		return "jpg"
	default:
		return "png"
	}
}
