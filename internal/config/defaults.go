package config

const (
	defaultConfigPath            = "~/.config/crocdb/config.toml"
	defaultDataDir               = "~/.local/share/crocdb"
	defaultCacheDir              = "~/.cache/crocdb/responses"
	defaultStaticDir             = "~/.local/share/crocdb/static"
	defaultMetadataDir           = "~/.local/share/crocdb/metadata"
	defaultSourcesFile           = "sources.toml"
	defaultDatabaseName          = "roms.db"
	defaultUserAgent             = "curl/8.13.0"
	defaultLoginURL              = "https://archive.org/account/login"
	defaultSiteBaseURL           = "https://crocdb.net"
	defaultLibretroThumbnailsURL = "https://thumbnails.libretro.com"
	defaultGameTDBArtURL         = "https://art.gametdb.com"
	defaultBoxartCacheFile       = "~/.cache/crocdb/boxart_cache.json"
	defaultGameTDBDownloadURL    = "https://www.gametdb.com"
	defaultLibretroDatabaseURL   = "https://codeload.github.com/libretro/libretro-database/tar.gz/refs/heads/master"
	defaultMAMEArchiveURL        = "https://codeload.github.com/mamedev/mame/tar.gz/refs/heads/master"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			CacheDir:    defaultCacheDir,
			StaticDir:   defaultStaticDir,
			MetadataDir: defaultMetadataDir,
			SourcesFile: defaultSourcesFile,
		},
		Catalog: Catalog{
			DatabaseName: defaultDatabaseName,
		},
		Fetch: Fetch{
			UserAgent: defaultUserAgent,
			LoginURL:  defaultLoginURL,
		},
		Site: Site{
			BaseURL: defaultSiteBaseURL,
		},
		Metadata: Metadata{
			LibretroThumbnailsURL: defaultLibretroThumbnailsURL,
			GameTDBArtURL:         defaultGameTDBArtURL,
			BoxartCacheFile:       defaultBoxartCacheFile,
			GameTDBDownloadURL:    defaultGameTDBDownloadURL,
			LibretroDatabaseURL:   defaultLibretroDatabaseURL,
			MAMEArchiveURL:        defaultMAMEArchiveURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
