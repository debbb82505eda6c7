// Package parsers enriches scraped records.
//
// Parsers run in the order a source declares them. Each receives the
// records produced so far and returns a transformed copy: cleaned titles,
// regions read from No-Intro names, external ids from reference databases,
// and box-art URLs. Reference data (MAME hash lists, libretro DAT files,
// GameTDB databases) is read from the metadata directory and loaded once
// per run.
//
// Registered names: no_intro, wii_rom_set_by_ghostware, mame, libretro,
// gametdb.
package parsers
