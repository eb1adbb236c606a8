package mongodata

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// ConnectionStrings is a named connection string table.
type ConnectionStrings interface {
	ConnectionString(name string) (string, bool)
}

type ConnectionStringMap map[string]string

func (m ConnectionStringMap) ConnectionString(name string) (string, bool) {
	v, ok := m[name]
	return v, ok && v != ""
}

func lookupConnectionString(cs ConnectionStrings, name string) (string, error) {
	if cs == nil {
		return "", errors.Wrapf(ErrConnectionStringNotFound, "%q: no connection strings configured", name)
	}
	v, ok := cs.ConnectionString(name)
	if !ok {
		return "", errors.Wrapf(ErrConnectionStringNotFound, "%q", name)
	}
	return v, nil
}

// databaseName accepts a bare database name or a URI carrying one in its path. The
// URI is only split, never resolved: a mongodb+srv host is not looked up here.
func databaseName(value string) (string, error) {
	rest, ok := strings.CutPrefix(value, connstring.SchemeMongoDB+"://")
	if !ok {
		rest, ok = strings.CutPrefix(value, connstring.SchemeMongoDBSRV+"://")
	}
	if !ok {
		return value, nil
	}

	// A "/" inside the user info must be percent-encoded, so the first one ends the hosts.
	_, path, _ := strings.Cut(rest, "/")
	path, _, _ = strings.Cut(path, "?")
	name, err := url.PathUnescape(path)
	if err != nil {
		return "", errors.Wrapf(err, "connection string %q", value)
	}
	if name == "" {
		return "", errors.Errorf("connection string %q has no database", value)
	}
	return name, nil
}
