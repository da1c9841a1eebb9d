package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. All missing required store
// parameters are reported in a single error so an operator can fix them in
// one pass.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Store.Endpoint) == "" {
		missing = append(missing, "store.endpoint")
	}
	if strings.TrimSpace(c.Store.Bucket) == "" {
		missing = append(missing, "store.bucket")
	}
	if strings.TrimSpace(c.Store.AccessKey) == "" {
		missing = append(missing, "store.access_key (or RESTOW_STORE_ACCESS_KEY)")
	}
	if strings.TrimSpace(c.Store.SecretKey) == "" {
		missing = append(missing, "store.secret_key (or RESTOW_STORE_SECRET_KEY)")
	}
	if len(missing) > 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/restow/config.toml"
		}
		return fmt.Errorf("missing required settings: %s. Edit %s (create with 'restow config init')",
			strings.Join(missing, ", "), defaultPath)
	}

	if strings.TrimSpace(c.Catalog.DBPath) == "" {
		return fmt.Errorf("catalog.db_path must be set")
	}
	if c.Reconciler.ListPageSize > c.Reconciler.ListingScanCap {
		return fmt.Errorf("reconciler.list_page_size (%d) cannot exceed reconciler.listing_scan_cap (%d)",
			c.Reconciler.ListPageSize, c.Reconciler.ListingScanCap)
	}
	return nil
}
