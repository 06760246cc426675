package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func validParams() Params {
	return Params{
		LogData:     "s3://udacity-dend/log_data",
		LogJSONPath: "s3://udacity-dend/log_json_path.json",
		SongData:    "s3://udacity-dend/song_data",
		RoleARN:     "arn:aws:iam::123456789012:role/dwhRole",
		Region:      "us-west-2",
	}
}

func TestBuild_CollectionSizes(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, 7, c.Drop.Len())
	assert.Equal(t, 7, c.Create.Len())
	assert.Equal(t, 2, c.Copy.Len())
	assert.Equal(t, 5, c.Insert.Len())
	assert.Len(t, c.All(), 21)
}

func TestBuild_Order(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"staging_events_table_drop",
		"staging_songs_table_drop",
		"songplay_table_drop",
		"user_table_drop",
		"song_table_drop",
		"artist_table_drop",
		"time_table_drop",
	}, c.Drop.Names())
	assert.Equal(t, []string{
		"staging_events_table_create",
		"staging_songs_table_create",
		"songplay_table_create",
		"user_table_create",
		"song_table_create",
		"artist_table_create",
		"time_table_create",
	}, c.Create.Names())
	assert.Equal(t, []string{"staging_events_copy", "staging_songs_copy"}, c.Copy.Names())
	assert.Equal(t, []string{
		"songplay_table_insert",
		"user_table_insert",
		"song_table_insert",
		"artist_table_insert",
		"time_table_insert",
	}, c.Insert.Names())
}

func TestBuild_CollectionsAreDisjointByKind(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	seen := map[string]Kind{}
	for _, k := range Kinds {
		coll := c.Collection(k)
		assert.Equal(t, k, coll.Kind())
		for _, s := range coll.Statements() {
			assert.Equal(t, k, s.Kind, "statement %s", s.Name)
			prev, dup := seen[s.Name]
			assert.False(t, dup, "statement %s appears in %s and %s", s.Name, prev, k)
			seen[s.Name] = k
		}
	}
}

func TestBuild_DropAndCreateCoverSameTables(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	drops := c.Drop.Statements()
	creates := c.Create.Statements()
	require.Equal(t, len(drops), len(creates))
	for i := range drops {
		assert.Equal(t, drops[i].Table, creates[i].Table)
		assert.Equal(t, "DROP TABLE IF EXISTS "+drops[i].Table, drops[i].SQL)
		assert.True(t, strings.HasPrefix(creates[i].SQL, "CREATE TABLE IF NOT EXISTS "+creates[i].Table+" ("))
	}
}

func TestBuild_RedshiftDDL(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	songplays, ok := c.Create.Lookup("songplay_table_create")
	require.True(t, ok)
	assert.Contains(t, songplays.SQL, "songplay_id BIGINT IDENTITY(0, 1) PRIMARY KEY,")
	assert.Contains(t, songplays.SQL, "start_time NUMERIC NOT NULL SORTKEY DISTKEY,")
	assert.Contains(t, songplays.SQL, "user_agent VARCHAR\n)")

	artists, _ := c.Create.Lookup("artist_table_create")
	assert.True(t, strings.HasSuffix(artists.SQL, ") DISTSTYLE ALL"))

	timeTable, _ := c.Create.Lookup("time_table_create")
	assert.Contains(t, timeTable.SQL, "start_time NUMERIC PRIMARY KEY SORTKEY,")
	assert.Contains(t, timeTable.SQL, "weekday SMALLINT NOT NULL\n)")
}

func TestBuild_PostgresDDL(t *testing.T) {
	p := validParams()
	p.Dialect = "PostgreSQL"
	c, err := Build(p)
	require.NoError(t, err)

	for _, s := range c.Create.Statements() {
		assert.NotContains(t, s.SQL, "SORTKEY", s.Name)
		assert.NotContains(t, s.SQL, "DISTKEY", s.Name)
		assert.NotContains(t, s.SQL, "DISTSTYLE", s.Name)
		assert.NotContains(t, s.SQL, "IDENTITY(0, 1)", s.Name)
	}
	songplays, _ := c.Create.Lookup("songplay_table_create")
	assert.Contains(t, songplays.SQL, "songplay_id BIGINT GENERATED BY DEFAULT AS IDENTITY (START WITH 0 MINVALUE 0) PRIMARY KEY,")
}

func TestBuild_CopySQL(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	events, ok := c.Copy.Lookup("staging_events_copy")
	require.True(t, ok)
	assert.Equal(t, "COPY staging_events FROM 's3://udacity-dend/log_data'\n"+
		"IAM_ROLE 'arn:aws:iam::123456789012:role/dwhRole'\n"+
		"REGION 'us-west-2'\n"+
		"FORMAT AS JSON 's3://udacity-dend/log_json_path.json'", events.SQL)
	assert.Equal(t, "staging_events", events.Table)

	songs, _ := c.Copy.Lookup("staging_songs_copy")
	assert.Equal(t, "COPY staging_songs FROM 's3://udacity-dend/song_data'\n"+
		"IAM_ROLE 'arn:aws:iam::123456789012:role/dwhRole'\n"+
		"REGION 'us-west-2'\n"+
		"FORMAT AS JSON 'auto'", songs.SQL)
}

func TestBuild_DefaultRegion(t *testing.T) {
	p := validParams()
	p.Region = ""
	c, err := Build(p)
	require.NoError(t, err)

	events, _ := c.Copy.Lookup("staging_events_copy")
	assert.Contains(t, events.SQL, "REGION '"+dwhetl.DefaultRegion+"'")
}

func TestBuild_InsertSemantics(t *testing.T) {
	c, err := Build(validParams())
	require.NoError(t, err)

	for _, s := range c.Insert.Statements() {
		assert.Contains(t, s.SQL, "SELECT DISTINCT", s.Name)
		assert.True(t, strings.HasPrefix(s.SQL, "INSERT INTO "+s.Table+" ("), s.Name)
	}

	songplays, _ := c.Insert.Lookup("songplay_table_insert")
	assert.Contains(t, songplays.SQL, "INNER JOIN staging_songs")
	assert.Contains(t, songplays.SQL, "staging_events.song = staging_songs.title")
	assert.Contains(t, songplays.SQL, "staging_events.artist = staging_songs.artist_name")
	assert.Contains(t, songplays.SQL, "page = 'NextSong'")

	users, _ := c.Insert.Lookup("user_table_insert")
	assert.Contains(t, users.SQL, "page = 'NextSong'")

	timeInsert, _ := c.Insert.Lookup("time_table_insert")
	assert.Contains(t, timeInsert.SQL, "EXTRACT(DOW FROM event_time) AS weekday")
	assert.Contains(t, timeInsert.SQL, "EXTRACT(WEEK FROM event_time) AS week")
}

func TestParams_Validate_ReportsEveryProblem(t *testing.T) {
	err := Params{Region: "nowhere", Dialect: "oracle"}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, dwhetl.ErrInvalidConfig)

	msg := err.Error()
	for _, want := range []string{"log_data", "log_jsonpath", "song_data", "iam_role.arn", "nowhere", "oracle"} {
		assert.Contains(t, msg, want)
	}
}

func TestParams_Validate_RejectsInjection(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"quote in log data", func(p *Params) { p.LogData = "s3://bucket/x' IAM_ROLE 'arn" }},
		{"quote in jsonpath", func(p *Params) { p.LogJSONPath = "s3://bucket/path.json'; DROP TABLE users; --" }},
		{"backslash in song data", func(p *Params) { p.SongData = `s3://bucket/song\data` }},
		{"quote in role", func(p *Params) { p.RoleARN = "arn:aws:iam::123456789012:role/x'--" }},
		{"newline in role", func(p *Params) { p.RoleARN = "arn:aws:iam::123456789012:role/x\nREGION" }},
		{"quote in region", func(p *Params) { p.Region = "us-west-2'" }},
		{"not s3", func(p *Params) { p.LogData = "https://bucket/log_data" }},
		{"wrong service", func(p *Params) { p.RoleARN = "arn:aws:s3:::bucket" }},
		{"user not role", func(p *Params) { p.RoleARN = "arn:aws:iam::123456789012:user/alice" }},
		{"short account", func(p *Params) { p.RoleARN = "arn:aws:iam::1234:role/r" }},
		{"empty role name", func(p *Params) { p.RoleARN = "arn:aws:iam::123456789012:role/" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			c, err := Build(p)
			assert.ErrorIs(t, err, dwhetl.ErrInvalidConfig)
			assert.Nil(t, c)
		})
	}
}

func TestBuildSchema(t *testing.T) {
	c, err := BuildSchema("")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Drop.Len())
	assert.Equal(t, 7, c.Create.Len())
	assert.Zero(t, c.Copy.Len())
	assert.Equal(t, 5, c.Insert.Len(), "inserts read only staging tables")

	_, err = BuildSchema("mysql")
	assert.ErrorIs(t, err, dwhetl.ErrInvalidConfig)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", quoteLiteral("plain"))
	assert.Equal(t, "'it''s'", quoteLiteral("it's"))
	assert.Equal(t, "''", quoteLiteral(""))
}

func TestValidateRegion(t *testing.T) {
	for _, ok := range []string{"us-west-2", "eu-central-1", "ap-southeast-2", "us-gov-west-1"} {
		assert.NoError(t, validateRegion(ok), ok)
	}
	for _, bad := range []string{"", "us-west", "US-WEST-2", "us_west_2", "us-west-2 "} {
		assert.Error(t, validateRegion(bad), bad)
	}
}

func TestCatalog_CollectionUnknownKindIsEmpty(t *testing.T) {
	c, err := BuildSchema(DialectRedshift)
	require.NoError(t, err)

	assert.Equal(t, 5, c.Collection(KindInsert).Len())
	unknown := c.Collection(Kind(42))
	assert.Zero(t, unknown.Len())
	assert.Equal(t, Kind(42), unknown.Kind())
}
