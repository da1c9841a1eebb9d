package config

const (
	defaultDBPath         = "~/.local/share/restow/catalog.db"
	defaultLogDir         = "~/.local/share/restow/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRegion         = "us-east-1"
	defaultListPageSize   = 1000
	defaultListingScanCap = 10000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Store: Store{
			Region:            defaultRegion,
			UseSSL:            true,
			VerifyDestination: true,
		},
		Catalog: Catalog{
			DBPath: defaultDBPath,
		},
		Reconciler: Reconciler{
			ListPageSize:   defaultListPageSize,
			ListingScanCap: defaultListingScanCap,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
