package mongodata

import "go.mongodb.org/mongo-driver/mongo/options"

const (
	DefaultClientName  = "MongoDBClient"
	DefaultContextName = "MongoDBContext"
)

// Settings describes where a DataContext gets its client and database from.
//
// ClientName and ContextName are looked up in ConnectionStrings: the first holds the
// client URI, the second the database name. ClientSettings and DatabaseSettings, when
// set, are used instead of the respective lookup.
type Settings struct {
	ClientName        string
	ContextName       string
	ClientSettings    *options.ClientOptions
	DatabaseSettings  *DatabaseSettings
	ConnectionStrings ConnectionStrings

	// DisconnectOnClose makes Close disconnect the client too. Off by default, a closed
	// context only forgets its handle.
	DisconnectOnClose bool
}

type DatabaseSettings struct {
	Name    string
	Options *options.DatabaseOptions
}

// SettingOptions is the process-wide default. NewDataContext copies it.
var SettingOptions = Settings{
	ClientName:  DefaultClientName,
	ContextName: DefaultContextName,
}
