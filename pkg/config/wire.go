package config

import (
	"tableflip.dev/streammap/pkg/geo"
	"tableflip.dev/streammap/pkg/store"
)

// StoreOptions selects the blob backend.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:   c.Backend,
		BasePath:  c.Path,
		BlobName:  c.Blob,
		SQLiteDSN: c.SQLiteDSN,
		Redis:     c.Redis,
	}
}

// Resolver builds the geo capabilities. Forward lookups try the gazetteer
// before Nominatim; offline mode never leaves the process.
func (c *Config) Resolver() *geo.Resolver {
	gaz := geo.NewGazetteer()
	r := &geo.Resolver{Forwarder: gaz, Reverser: gaz}

	if c.Device != nil {
		r.Locator = &geo.FixedLocator{Position: *c.Device}
	}
	if c.Offline {
		return r
	}

	nom := geo.NewNominatim(geo.NominatimOptions{
		BaseURL:   c.NominatimURL,
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	})
	r.Forwarder = geo.Chain{gaz, nom}
	r.Reverser = nom
	if r.Locator == nil {
		r.Locator = geo.NewIPLocator(geo.IPLocatorOptions{
			URL:       c.IPAPIURL,
			UserAgent: c.UserAgent,
			Timeout:   c.Timeout,
		})
	}
	return r
}
