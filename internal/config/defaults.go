package config

const (
	defaultLibraryDir      = "~/audiobooks"
	defaultDataDir         = "~/.local/share/folio"
	defaultLogDir          = "~/.local/share/folio/logs"
	defaultCoverDir        = "~/.local/share/folio/covers"
	defaultSocketPath      = "~/.local/share/folio/foliod.sock"
	defaultProviderBaseURL = "https://openlibrary.org"
	defaultCoverBaseURL    = "https://covers.openlibrary.org"
	defaultLanguage        = "en"
	defaultTimeoutSeconds  = 15
	defaultMaxResults      = 10
	defaultDebounceMs      = 500
	defaultNtfyTimeout     = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultExtensions() []string {
	return []string{".m4b", ".m4a", ".mp3", ".ogg", ".opus", ".flac"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			CoverDir:   defaultCoverDir,
			SocketPath: defaultSocketPath,
		},
		Provider: Provider{
			BaseURL:        defaultProviderBaseURL,
			CoverBaseURL:   defaultCoverBaseURL,
			Language:       defaultLanguage,
			TimeoutSeconds: defaultTimeoutSeconds,
			MaxResults:     defaultMaxResults,
		},
		Scan: Scan{
			Extensions: defaultExtensions(),
			Watch:      true,
			DebounceMs: defaultDebounceMs,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
			Reconcile:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
