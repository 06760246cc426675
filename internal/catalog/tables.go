package catalog

import (
	"strings"
)

// Column describes one column of a warehouse table.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
	Identity   bool
	SortKey    bool
	DistKey    bool
}

// Table describes a warehouse table and the prefix its statements are named with.
type Table struct {
	Name         string
	StatementKey string
	Columns      []Column
	DistStyleAll bool
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func nullable(name, typ string) Column { return Column{Name: name, Type: typ} }

func required(name, typ string) Column { return Column{Name: name, Type: typ, NotNull: true} }

// Tables lists the schema in reset order: the two staging tables, the
// songplays fact and the four dimensions.
var Tables = []Table{
	{
		Name:         "staging_events",
		StatementKey: "staging_events_table",
		Columns: []Column{
			nullable("artist", "VARCHAR"),
			nullable("auth", "VARCHAR"),
			nullable("firstName", "VARCHAR"),
			nullable("gender", "VARCHAR"),
			nullable("itemInSession", "INT"),
			nullable("lastName", "VARCHAR"),
			nullable("length", "NUMERIC"),
			nullable("level", "VARCHAR"),
			nullable("location", "VARCHAR"),
			nullable("method", "VARCHAR"),
			nullable("page", "VARCHAR"),
			nullable("registration", "NUMERIC"),
			nullable("sessionId", "INT"),
			nullable("song", "VARCHAR"),
			nullable("status", "SMALLINT"),
			nullable("ts", "NUMERIC"),
			nullable("userAgent", "VARCHAR"),
			nullable("userId", "BIGINT"),
		},
	},
	{
		Name:         "staging_songs",
		StatementKey: "staging_songs_table",
		Columns: []Column{
			nullable("num_songs", "INT"),
			nullable("artist_id", "VARCHAR"),
			nullable("artist_latitude", "NUMERIC"),
			nullable("artist_longitude", "NUMERIC"),
			nullable("artist_location", "VARCHAR"),
			nullable("artist_name", "VARCHAR"),
			nullable("song_id", "VARCHAR"),
			nullable("title", "VARCHAR"),
			nullable("duration", "NUMERIC"),
			nullable("year", "SMALLINT"),
		},
	},
	{
		Name:         "songplays",
		StatementKey: "songplay_table",
		Columns: []Column{
			{Name: "songplay_id", Type: "BIGINT", Identity: true, PrimaryKey: true},
			{Name: "start_time", Type: "NUMERIC", NotNull: true, SortKey: true, DistKey: true},
			required("user_id", "BIGINT"),
			nullable("level", "VARCHAR"),
			required("song_id", "VARCHAR"),
			nullable("artist_id", "VARCHAR"),
			required("session_id", "BIGINT"),
			nullable("location", "VARCHAR"),
			nullable("user_agent", "VARCHAR"),
		},
	},
	{
		Name:         "users",
		StatementKey: "user_table",
		Columns: []Column{
			{Name: "user_id", Type: "BIGINT", PrimaryKey: true},
			nullable("first_name", "VARCHAR"),
			nullable("last_name", "VARCHAR"),
			nullable("gender", "VARCHAR"),
			nullable("level", "VARCHAR"),
		},
	},
	{
		Name:         "songs",
		StatementKey: "song_table",
		Columns: []Column{
			{Name: "song_id", Type: "VARCHAR", PrimaryKey: true},
			required("title", "VARCHAR"),
			nullable("artist_id", "VARCHAR"),
			nullable("year", "SMALLINT"),
			nullable("duration", "NUMERIC"),
		},
	},
	{
		Name:         "artists",
		StatementKey: "artist_table",
		Columns: []Column{
			{Name: "artist_id", Type: "VARCHAR", PrimaryKey: true},
			nullable("name", "VARCHAR"),
			nullable("location", "VARCHAR"),
			nullable("latitude", "NUMERIC"),
			nullable("longitude", "NUMERIC"),
		},
		DistStyleAll: true,
	},
	{
		Name:         "time",
		StatementKey: "time_table",
		Columns: []Column{
			{Name: "start_time", Type: "NUMERIC", PrimaryKey: true, SortKey: true},
			required("hour", "SMALLINT"),
			required("day", "SMALLINT"),
			required("week", "SMALLINT"),
			required("month", "SMALLINT"),
			required("year", "SMALLINT"),
			required("weekday", "SMALLINT"),
		},
	},
}

// TableByName finds a table definition.
func TableByName(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

func dropSQL(t Table) string {
	return "DROP TABLE IF EXISTS " + t.Name
}

func createSQL(t Table, d Dialect) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(t.Name)
	b.WriteString(" (\n")
	for i, c := range t.Columns {
		b.WriteString("    ")
		b.WriteString(columnSQL(c, d))
		if i < len(t.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	if t.DistStyleAll && d.hints() {
		b.WriteString(" DISTSTYLE ALL")
	}
	return b.String()
}

func columnSQL(c Column, d Dialect) string {
	parts := []string{c.Name, c.Type}
	if c.Identity {
		parts = append(parts, d.identity())
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if d.hints() {
		if c.SortKey {
			parts = append(parts, "SORTKEY")
		}
		if c.DistKey {
			parts = append(parts, "DISTKEY")
		}
	}
	return strings.Join(parts, " ")
}
