package catalog

import (
	"fmt"
)

// copySQL renders a Redshift COPY of JSON objects from S3.
// format is either a quoted JSONPath location or 'auto'.
func copySQL(table, source, roleARN, region, format string) string {
	return fmt.Sprintf("COPY %s FROM %s\nIAM_ROLE %s\nREGION %s\nFORMAT AS JSON %s",
		table,
		quoteLiteral(source),
		quoteLiteral(roleARN),
		quoteLiteral(region),
		format,
	)
}

func copyStatements(p Params) Collection {
	return mustCollection(KindCopy,
		Statement{
			Name:  "staging_events_copy",
			Kind:  KindCopy,
			Table: "staging_events",
			SQL:   copySQL("staging_events", p.LogData, p.RoleARN, p.Region, quoteLiteral(p.LogJSONPath)),
		},
		Statement{
			Name:  "staging_songs_copy",
			Kind:  KindCopy,
			Table: "staging_songs",
			SQL:   copySQL("staging_songs", p.SongData, p.RoleARN, p.Region, "'auto'"),
		},
	)
}
