package catalog

// Platforms seeded into every catalog, in display order.
var seedPlatforms = []Platform{
	{ID: "nes", Brand: "Nintendo", Name: "Nintendo Entertainment System"},
	{ID: "fds", Brand: "Nintendo", Name: "Famicom Disk System"},
	{ID: "snes", Brand: "Nintendo", Name: "Super Nintendo Entertainment System"},
	{ID: "gb", Brand: "Nintendo", Name: "Game Boy"},
	{ID: "gbc", Brand: "Nintendo", Name: "Game Boy Color"},
	{ID: "gba", Brand: "Nintendo", Name: "Game Boy Advance"},
	{ID: "min", Brand: "Nintendo", Name: "Pokemon Mini"},
	{ID: "vb", Brand: "Nintendo", Name: "Virtual Boy"},
	{ID: "n64", Brand: "Nintendo", Name: "Nintendo 64"},
	{ID: "ndd", Brand: "Nintendo", Name: "Nintendo 64DD"},
	{ID: "gc", Brand: "Nintendo", Name: "GameCube"},
	{ID: "nds", Brand: "Nintendo", Name: "Nintendo DS"},
	{ID: "dsi", Brand: "Nintendo", Name: "Nintendo DSi"},
	{ID: "wii", Brand: "Nintendo", Name: "Wii"},
	{ID: "3ds", Brand: "Nintendo", Name: "Nintendo 3DS"},
	{ID: "n3ds", Brand: "Nintendo", Name: "New Nintendo 3DS"},
	{ID: "wiiu", Brand: "Nintendo", Name: "Wii U"},
	{ID: "ps1", Brand: "Sony", Name: "PlayStation"},
	{ID: "ps2", Brand: "Sony", Name: "PlayStation 2"},
	{ID: "psp", Brand: "Sony", Name: "PlayStation Portable"},
	{ID: "ps3", Brand: "Sony", Name: "PlayStation 3"},
	{ID: "psv", Brand: "Sony", Name: "PlayStation Vita"},
	{ID: "xbox", Brand: "Microsoft", Name: "Xbox"},
	{ID: "x360", Brand: "Microsoft", Name: "Xbox 360"},
	{ID: "sms", Brand: "Sega", Name: "Master System - Mark III"},
	{ID: "gg", Brand: "Sega", Name: "Game Gear"},
	{ID: "smd", Brand: "Sega", Name: "Mega Drive - Genesis"},
	{ID: "scd", Brand: "Sega", Name: "Mega-CD - Sega CD"},
	{ID: "32x", Brand: "Sega", Name: "32X"},
	{ID: "sat", Brand: "Sega", Name: "Sega Saturn"},
	{ID: "dc", Brand: "Sega", Name: "Dreamcast"},
	{ID: "mame", Brand: "Arcade", Name: "MAME"},
	{ID: "a26", Brand: "Atari", Name: "Atari 2600"},
	{ID: "a52", Brand: "Atari", Name: "Atari 5200"},
	{ID: "a78", Brand: "Atari", Name: "Atari 7800"},
	{ID: "lynx", Brand: "Atari", Name: "Atari Lynx"},
	{ID: "jag", Brand: "Atari", Name: "Atari Jaguar"},
	{ID: "jcd", Brand: "Atari", Name: "Atari Jaguar CD"},
	{ID: "tg16", Brand: "NEC", Name: "PC Engine - TurboGrafx-16"},
	{ID: "tgcd", Brand: "NEC", Name: "PC Engine CD - TurboGrafx-CD"},
	{ID: "pcfx", Brand: "NEC", Name: "PC-FX"},
	{ID: "pc98", Brand: "NEC", Name: "PC-98"},
	{ID: "intv", Brand: "Mattel", Name: "Intellivision"},
	{ID: "cv", Brand: "Coleco", Name: "ColecoVision"},
	{ID: "3do", Brand: "The 3DO Company", Name: "3DO Interactive Multiplayer"},
	{ID: "cdi", Brand: "Philips", Name: "CD-i"},
	{ID: "fmt", Brand: "Fujitsu", Name: "FM Towns"},
	{ID: "ngcd", Brand: "SNK", Name: "Neo Geo CD"},
	{ID: "pip", Brand: "Apple-Bandai", Name: "Pippin"},
}

var seedRegions = []Region{
	{ID: "eu", Name: "Europe"},
	{ID: "us", Name: "USA"},
	{ID: "jp", Name: "Japan"},
	{ID: "other", Name: "Other"},
}

// KnownPlatform reports whether id is part of the seeded platform set.
func KnownPlatform(id string) bool {
	for _, p := range seedPlatforms {
		if p.ID == id {
			return true
		}
	}
	return false
}

// KnownRegion reports whether id is part of the seeded region set.
func KnownRegion(id string) bool {
	for _, r := range seedRegions {
		if r.ID == id {
			return true
		}
	}
	return false
}
