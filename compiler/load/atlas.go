package load

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"github.com/go-openapi/inflect"

	"github.com/syssam/relgraph/schema/edge"
	"github.com/syssam/relgraph/schema/field"
)

// RealmOption configures the conversion of an atlas realm.
type RealmOption func(*realmConfig)

type realmConfig struct {
	keys      func(string) string
	relations bool
	schemas   map[string]bool
	err       error
}

// WithKeyCasing derives column keys from storage names using the given
// casing ("camel" turns created_at into createdAt). Keys equal storage names
// by default. Any other casing fails the conversion.
func WithKeyCasing(casing string) RealmOption {
	return func(c *realmConfig) {
		switch casing {
		case "camel":
			c.keys = func(s string) string { return inflect.CamelizeDownFirst(s) }
		case "snake":
			c.keys = inflect.Underscore
		default:
			c.err = fmt.Errorf("load: unsupported key casing %q; use camel or snake", casing)
		}
	}
}

// WithForeignKeyRelations synthesizes a One relation declaration, with
// explicit fields, for every foreign key of the inspected tables.
func WithForeignKeyRelations() RealmOption {
	return func(c *realmConfig) { c.relations = true }
}

// WithSchemas limits the conversion to the named database schemas.
func WithSchemas(names ...string) RealmOption {
	return func(c *realmConfig) {
		if c.schemas == nil {
			c.schemas = make(map[string]bool)
		}
		for _, n := range names {
			c.schemas[n] = true
		}
	}
}

// InspectDB opens an atlas driver for the given dialect on top of db and
// inspects its realm. db is usually a *sql.DB.
func InspectDB(ctx context.Context, db schema.ExecQuerier, dialect string, opts ...RealmOption) ([]*Schema, error) {
	s, err := NewStorage(dialect)
	if err != nil {
		return nil, err
	}
	drv, err := s.Open(db)
	if err != nil {
		return nil, fmt.Errorf("load: open %s driver: %w", s, err)
	}
	return Inspect(ctx, drv, opts...)
}

// Inspect reads the realm of a live database through an atlas driver and
// converts it to loaded schemas.
func Inspect(ctx context.Context, insp schema.Inspector, opts ...RealmOption) ([]*Schema, error) {
	realm, err := insp.InspectRealm(ctx, &schema.InspectRealmOption{})
	if err != nil {
		return nil, fmt.Errorf("load: inspect realm: %w", err)
	}
	return FromRealm(realm, opts...)
}

// FromRealm converts the tables of an atlas realm into loaded schemas.
// Tables are returned in realm order.
func FromRealm(realm *schema.Realm, opts ...RealmOption) ([]*Schema, error) {
	cfg := &realmConfig{keys: func(s string) string { return s }}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	var schemas []*Schema
	for _, s := range realm.Schemas {
		if cfg.schemas != nil && !cfg.schemas[s.Name] {
			continue
		}
		for _, t := range s.Tables {
			ls, err := cfg.table(t)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, ls)
		}
	}
	return schemas, nil
}

func (c *realmConfig) table(t *schema.Table) (*Schema, error) {
	s := &Schema{Name: t.Name}
	keys := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		lc := &Column{
			Key:     c.keys(col.Name),
			Name:    col.Name,
			Default: col.Default != nil,
		}
		if col.Type != nil {
			lc.Raw = col.Type.Raw
			lc.Nullable = col.Type.Null
			lc.Type, lc.Enums = columnType(col.Type)
		}
		if lc.Key == "" {
			return nil, fmt.Errorf("load: table %q: column %q has an empty key", t.Name, col.Name)
		}
		keys[col.Name] = lc.Key
		s.Columns = append(s.Columns, lc)
	}
	if pk := t.PrimaryKey; pk != nil {
		for _, part := range pk.Parts {
			if part.C == nil {
				return nil, fmt.Errorf("load: table %q: primary key on expression is not supported", t.Name)
			}
			s.PrimaryKey = append(s.PrimaryKey, keys[part.C.Name])
		}
	}
	for _, fk := range t.ForeignKeys {
		if fk.RefTable == nil || len(fk.Columns) != len(fk.RefColumns) {
			continue
		}
		refKeys := make([]string, len(fk.RefColumns))
		for i, rc := range fk.RefColumns {
			refKeys[i] = c.keys(rc.Name)
		}
		fields := make([]string, len(fk.Columns))
		for i, fc := range fk.Columns {
			fields[i] = keys[fc.Name]
			// Per-column references are only meaningful for single-column keys.
			if len(fk.Columns) == 1 {
				col, _ := s.Column(fields[i])
				col.ForeignKey = &ForeignKey{Table: fk.RefTable.Name, Column: refKeys[i]}
			}
		}
		if c.relations {
			s.Relations = append(s.Relations, &Relation{
				Name:        relationName(s, fields, fk.RefTable.Name),
				Cardinality: edge.CardinalityOne,
				Target:      fk.RefTable.Name,
				Fields:      fields,
				References:  refKeys,
			})
		}
	}
	return s, nil
}

// relationName picks a field name for a relation synthesized from a foreign
// key: "ownerId" and "owner_id" become "owner", anything else falls back to
// the singular form of the referenced table.
func relationName(s *Schema, fields []string, ref string) string {
	taken := func(name string) bool {
		if _, ok := s.Column(name); ok {
			return true
		}
		for _, r := range s.Relations {
			if r.Name == name {
				return true
			}
		}
		return false
	}
	if len(fields) == 1 {
		f := fields[0]
		for _, suffix := range []string{"_id", "Id", "ID"} {
			if base, ok := strings.CutSuffix(f, suffix); ok && base != "" && !taken(base) {
				return base
			}
		}
	}
	name := inflect.Singularize(ref)
	for i := 2; taken(name); i++ {
		name = fmt.Sprintf("%s%d", inflect.Singularize(ref), i)
	}
	return name
}

// columnType maps an atlas column type to a storage type.
func columnType(ct *schema.ColumnType) (field.Type, []string) {
	switch t := ct.Type.(type) {
	case *schema.BoolType:
		return field.TypeBool, nil
	case *schema.IntegerType:
		return integerType(t), nil
	case *schema.FloatType:
		if strings.EqualFold(t.T, "real") || strings.EqualFold(t.T, "float4") {
			return field.TypeFloat32, nil
		}
		return field.TypeFloat64, nil
	case *schema.DecimalType:
		return field.TypeFloat64, nil
	case *schema.StringType:
		return field.TypeString, nil
	case *schema.EnumType:
		return field.TypeEnum, t.Values
	case *schema.TimeType:
		return field.TypeTime, nil
	case *schema.JSONType:
		return field.TypeJSON, nil
	case *schema.UUIDType:
		return field.TypeUUID, nil
	case *schema.BinaryType:
		return field.TypeBytes, nil
	case *postgres.SerialType:
		switch t.T {
		case postgres.TypeSmallSerial:
			return field.TypeInt16, nil
		case postgres.TypeBigSerial:
			return field.TypeInt64, nil
		}
		return field.TypeInt, nil
	case *schema.UnsupportedType:
		return field.ParseStorageType(t.T), nil
	}
	return field.ParseStorageType(ct.Raw), nil
}

func integerType(t *schema.IntegerType) field.Type {
	typ := field.ParseStorageType(t.T)
	if !typ.Integer() {
		typ = field.TypeInt64
	}
	if t.Unsigned {
		switch typ {
		case field.TypeInt8:
			return field.TypeUint8
		case field.TypeInt16:
			return field.TypeUint16
		case field.TypeInt32:
			return field.TypeUint32
		case field.TypeInt:
			return field.TypeUint
		default:
			return field.TypeUint64
		}
	}
	return typ
}
