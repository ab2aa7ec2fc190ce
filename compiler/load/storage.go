package load

import (
	"fmt"
	"slices"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
)

// Database dialects supported by InspectDB.
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// Storage describes a database dialect that schemas can be inspected from.
type Storage struct {
	Name       string   // dialect name.
	Aliases    []string // alternative dialect names.
	DriverName string   // database/sql driver name.
	// Open opens an atlas driver on top of a database connection.
	Open func(schema.ExecQuerier) (migrate.Driver, error)
}

var drivers = []*Storage{
	{
		Name:       DialectSQLite,
		Aliases:    []string{"sqlite3"},
		DriverName: "sqlite",
		Open:       sqlite.Open,
	},
	{
		Name:       DialectMySQL,
		Aliases:    []string{"mariadb"},
		DriverName: "mysql",
		Open:       mysql.Open,
	},
	{
		Name:       DialectPostgres,
		Aliases:    []string{"postgresql", "pg"},
		DriverName: "postgres",
		Open:       postgres.Open,
	},
}

// NewStorage returns the storage of the given dialect name.
// It fails if the provided string is not a supported dialect.
func NewStorage(s string) (*Storage, error) {
	for _, d := range drivers {
		if s == d.Name || slices.Contains(d.Aliases, s) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("load: unsupported dialect %q", s)
}

// String implements the fmt.Stringer interface.
func (s *Storage) String() string { return s.Name }
