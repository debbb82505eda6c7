package catalog

import (
	"path/filepath"
	"strings"
)

// Paths locates the three generations of a catalog file.
type Paths struct {
	Published string
	Staging   string
	Backup    string
}

// PathsFor derives the staging and backup locations from the published path:
// roms.db -> roms_staging.db, roms_backup.db.
func PathsFor(published string) Paths {
	dir := filepath.Dir(published)
	base := filepath.Base(published)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return Paths{
		Published: published,
		Staging:   filepath.Join(dir, name+"_staging"+ext),
		Backup:    filepath.Join(dir, name+"_backup"+ext),
	}
}

// sideFiles lists the SQLite journal files that may accompany path.
func sideFiles(path string) []string {
	return []string{path + "-journal", path + "-wal", path + "-shm"}
}
