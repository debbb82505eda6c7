package parsers

// libretroSystem names the libretro system folder of a platform and the DAT
// files, relative to <metadata_dir>/libretro, that carry its serials.
type libretroSystem struct {
	name string
	dats []string
}

var libretroSystems = map[string]libretroSystem{
	"nes": {"Nintendo - Nintendo Entertainment System", []string{
		"metadat/no-intro/Nintendo - Nintendo Entertainment System.dat",
		"dat/Nintendo - Nintendo Entertainment System.dat",
	}},
	"fds": {"Nintendo - Family Computer Disk System", []string{
		"metadat/no-intro/Nintendo - Family Computer Disk System.dat",
	}},
	"snes": {"Nintendo - Super Nintendo Entertainment System", []string{
		"metadat/no-intro/Nintendo - Super Nintendo Entertainment System.dat",
		"dat/Nintendo - Super Nintendo Entertainment System.dat",
	}},
	"gb":  {"Nintendo - Game Boy", []string{"metadat/no-intro/Nintendo - Game Boy.dat"}},
	"gbc": {"Nintendo - Game Boy Color", []string{"metadat/no-intro/Nintendo - Game Boy Color.dat"}},
	"gba": {"Nintendo - Game Boy Advance", []string{"metadat/no-intro/Nintendo - Game Boy Advance.dat"}},
	"min": {"Nintendo - Pokemon Mini", []string{"metadat/no-intro/Nintendo - Pokemon Mini.dat"}},
	"vb":  {"Nintendo - Virtual Boy", []string{"metadat/no-intro/Nintendo - Virtual Boy.dat"}},
	"n64": {"Nintendo - Nintendo 64", []string{"metadat/no-intro/Nintendo - Nintendo 64.dat"}},
	"ndd": {"Nintendo - Nintendo 64DD", []string{"metadat/no-intro/Nintendo - Nintendo 64DD.dat"}},
	"gc": {"Nintendo - GameCube", []string{
		"metadat/redump/Nintendo - GameCube.dat",
		"dat/Nintendo - GameCube.dat",
	}},
	"nds": {"Nintendo - Nintendo DS", []string{
		"metadat/no-intro/Nintendo - Nintendo DS.dat",
		"metadat/no-intro/Nintendo - Nintendo DS (Download Play).dat",
	}},
	"dsi": {"Nintendo - Nintendo DSi", []string{"metadat/no-intro/Nintendo - Nintendo DSi.dat"}},
	"wii": {"Nintendo - Wii", []string{
		"metadat/redump/Nintendo - Wii.dat",
		"dat/Nintendo - Wii.dat",
	}},
	"3ds": {"Nintendo - Nintendo 3DS", []string{
		"metadat/no-intro/Nintendo - Nintendo 3DS.dat",
		"metadat/no-intro/Nintendo - Nintendo 3DS (Digital).dat",
	}},
	"n3ds": {"Nintendo - Nintendo 3DS", []string{
		"metadat/no-intro/Nintendo - New Nintendo 3DS.dat",
		"metadat/no-intro/Nintendo - New Nintendo 3DS (Digital).dat",
	}},
	"wiiu": {"Nintendo - Wii U", []string{"dat/Nintendo - Wii U.dat"}},
	"ps1":  {"Sony - PlayStation", []string{"metadat/redump/Sony - PlayStation.dat"}},
	"ps2":  {"Sony - PlayStation 2", []string{"metadat/redump/Sony - PlayStation 2.dat"}},
	"psp": {"Sony - PlayStation Portable", []string{
		"metadat/redump/Sony - PlayStation Portable.dat",
		"metadat/no-intro/Sony - PlayStation Portable.dat",
		"metadat/no-intro/Sony - PlayStation Portable (PSN).dat",
		"metadat/no-intro/Sony - PlayStation Portable (PSX2PSP).dat",
		"metadat/no-intro/Sony - PlayStation Portable (UMD Music).dat",
		"metadat/no-intro/Sony - PlayStation Portable (UMD Video).dat",
		"dat/Sony - PlayStation Minis.dat",
	}},
	"ps3": {"Sony - PlayStation 3", []string{
		"metadat/no-intro/Sony - PlayStation 3 (PSN).dat",
		"dat/Sony - PlayStation 3.dat",
	}},
	"psv": {"Sony - PlayStation Vita", []string{
		"metadat/no-intro/Sony - PlayStation Vita.dat",
		"metadat/no-intro/Sony - PlayStation Vita (PSN).dat",
	}},
	"xbox": {"Microsoft - Xbox", []string{"metadat/redump/Microsoft - Xbox.dat"}},
	"x360": {"Microsoft - Xbox 360", []string{
		"metadat/redump/Microsoft - Xbox 360.dat",
		"metadat/no-intro/Microsoft - Xbox 360.dat",
		"metadat/no-intro/Microsoft - Xbox 360 (Digital).dat",
	}},
	"sms": {"Sega - Master System - Mark III", []string{"metadat/no-intro/Sega - Master System - Mark III.dat"}},
	"gg":  {"Sega - Game Gear", []string{"metadat/no-intro/Sega - Game Gear.dat"}},
	"smd": {"Sega - Mega Drive - Genesis", []string{"metadat/no-intro/Sega - Mega Drive - Genesis.dat"}},
	"scd": {"Sega - Mega-CD - Sega CD", []string{"metadat/redump/Sega - Mega-CD - Sega CD.dat"}},
	"32x": {"Sega - 32X", []string{"metadat/no-intro/Sega - 32X.dat"}},
	"sat": {"Sega - Saturn", []string{
		"metadat/redump/Sega - Saturn.dat",
		"dat/Sega - Saturn.dat",
	}},
	"dc":   {"Sega - Dreamcast", []string{"metadat/redump/Sega - Dreamcast.dat"}},
	"mame": {"MAME", nil},
	"a26":  {"Atari - 2600", []string{"metadat/no-intro/Atari - 2600.dat"}},
	"a52":  {"Atari - 5200", []string{"metadat/no-intro/Atari - 5200.dat"}},
	"a78":  {"Atari - 7800", []string{"metadat/no-intro/Atari - 7800.dat"}},
	"lynx": {"Atari - Lynx", []string{"metadat/no-intro/Atari - Lynx.dat"}},
	"jag":  {"Atari - Jaguar", []string{"metadat/no-intro/Atari - Jaguar.dat"}},
	"jcd":  {"Atari - Jaguar CD", []string{"metadat/redump/Atari - Jaguar CD.dat"}},
	"tg16": {"NEC - PC Engine - TurboGrafx 16", []string{"metadat/no-intro/NEC - PC Engine - TurboGrafx 16.dat"}},
	"tgcd": {"NEC - PC Engine CD - TurboGrafx-CD", []string{"metadat/redump/NEC - PC Engine CD - TurboGrafx-CD.dat"}},
	"pcfx": {"NEC - PC-FX", []string{"metadat/redump/NEC - PC-FX.dat"}},
	"pc98": {"NEC - PC-98", []string{
		"metadat/redump/NEC - PC-98.dat",
		"dat/NEC - PC-98.dat",
	}},
	"intv": {"Mattel - Intellivision", []string{"metadat/no-intro/Mattel - Intellivision.dat"}},
	"cv":   {"Coleco - ColecoVision", []string{"metadat/no-intro/Coleco - ColecoVision.dat"}},
	"3do":  {"The 3DO Company - 3DO", []string{"metadat/redump/The 3DO Company - 3DO.dat"}},
	"cdi":  {"Philips - CD-i", []string{"metadat/redump/Philips - CD-i.dat"}},
	"ngcd": {"SNK - Neo Geo CD", []string{"metadat/redump/SNK - Neo Geo CD.dat"}},
}
