package mongodata

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database is the handle a DataContext builds once: the client it was opened with
// and the database reference.
type Database struct {
	client Client
	*mongo.Database
}

func (d *Database) Client() Client {
	return d.client
}

func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx)
}

func (d *Database) disconnect(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	err := d.client.Disconnect(ctx)
	d.client = nil
	return err
}

func openDatabase(ctx context.Context, connector Connector, s Settings) (*Database, error) {
	copt, err := s.clientOptions()
	if err != nil {
		return nil, err
	}
	name, dopt, err := s.database()
	if err != nil {
		return nil, err
	}

	client, err := connector.Connect(ctx, copt)
	if err != nil {
		return nil, err
	}
	return &Database{client: client, Database: client.Database(name, dopt)}, nil
}

func (s Settings) clientOptions() (*options.ClientOptions, error) {
	if s.ClientSettings != nil {
		return s.ClientSettings, nil
	}

	uri, err := lookupConnectionString(s.ConnectionStrings, s.ClientName)
	if err != nil {
		return nil, err
	}
	return options.Client().ApplyURI(uri), nil
}

func (s Settings) database() (string, *options.DatabaseOptions, error) {
	if s.DatabaseSettings != nil {
		if s.DatabaseSettings.Name == "" {
			return "", nil, errors.New("database settings without a name")
		}
		return s.DatabaseSettings.Name, s.DatabaseSettings.Options, nil
	}

	v, err := lookupConnectionString(s.ConnectionStrings, s.ContextName)
	if err != nil {
		return "", nil, err
	}
	name, err := databaseName(v)
	if err != nil {
		return "", nil, err
	}
	return name, nil, nil
}
