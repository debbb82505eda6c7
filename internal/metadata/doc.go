// Package metadata downloads the reference databases that parsers read from
// metadata_dir: GameTDB XML exports into gametdb/, the libretro database dat
// and metadat trees into libretro/, and MAME software lists into mame/hash/.
package metadata
