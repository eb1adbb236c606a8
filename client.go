// https://www.mongodb.com/docs/drivers/go/current/quick-start/

package mongodata

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// Connector opens driver clients.
type Connector interface {
	Connect(ctx context.Context, opts *options.ClientOptions) (Client, error)
}

// Client is the part of *mongo.Client a DataContext uses.
type Client interface {
	Database(name string, opts ...*options.DatabaseOptions) *mongo.Database
	StartSession(opts *options.SessionOptions) (Session, error)
	Ping(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Session is a driver session. A mongo.Session satisfies everything but WithContext.
type Session interface {
	StartTransaction(opts ...*options.TransactionOptions) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
	EndSession(ctx context.Context)
	// WithContext binds the session to ctx so operations run inside it.
	WithContext(ctx context.Context) context.Context
}

// DriverConnector connects through the official driver.
type DriverConnector struct{}

func (DriverConnector) Connect(ctx context.Context, opts *options.ClientOptions) (Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &driverClient{Client: client}, nil
}

type driverClient struct {
	*mongo.Client
}

func (c *driverClient) StartSession(opts *options.SessionOptions) (Session, error) {
	s, err := c.Client.StartSession(opts)
	if err != nil {
		return nil, err
	}
	return &driverSession{Session: s}, nil
}

func (c *driverClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

type driverSession struct {
	mongo.Session
}

func (s *driverSession) WithContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, s.Session)
}

func ParseTLSConfig(pemFile []byte) (*tls.Config, error) {
	tlsConfig := new(tls.Config)
	tlsConfig.RootCAs = x509.NewCertPool()
	ok := tlsConfig.RootCAs.AppendCertsFromPEM(pemFile)
	if !ok {
		return nil, errors.New("failed parsing pem file")
	}
	return tlsConfig, nil
}
