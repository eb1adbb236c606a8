// Package mongodata provides a lazily connected MongoDB data context.
package mongodata

import (
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClientOptions is an alias for the official MongoDB client options.
//
// Example:
//
//	dc := mongodata.NewDataContext(mongodata.WithClientSettings(
//	    options.Client().ApplyURI(uri).SetMaxPoolSize(100),
//	))
type ClientOptions = options.ClientOptions

type Option func(dc *DataContext)

func WithSettings(fn func(s *Settings)) Option {
	return func(dc *DataContext) {
		fn(&dc.settings)
	}
}

func WithNames(clientName, contextName string) Option {
	return func(dc *DataContext) {
		dc.settings.ClientName = clientName
		dc.settings.ContextName = contextName
	}
}

func WithConnectionStrings(cs ConnectionStrings) Option {
	return func(dc *DataContext) {
		dc.settings.ConnectionStrings = cs
	}
}

func WithClientSettings(opts *ClientOptions) Option {
	return func(dc *DataContext) {
		dc.settings.ClientSettings = opts
	}
}

func WithDatabaseSettings(name string, opts ...*options.DatabaseOptions) Option {
	return func(dc *DataContext) {
		ds := &DatabaseSettings{Name: name}
		if len(opts) > 0 {
			ds.Options = opts[0]
		}
		dc.settings.DatabaseSettings = ds
	}
}

func WithDisconnectOnClose(disconnect bool) Option {
	return func(dc *DataContext) {
		dc.settings.DisconnectOnClose = disconnect
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(dc *DataContext) {
		dc.log = log
	}
}

// WithConnector replaces the driver connector, mostly for tests.
func WithConnector(c Connector) Option {
	return func(dc *DataContext) {
		dc.connector = c
	}
}
