package catalog

// The fact insert matches events to songs on title and artist name because the
// event log carries no song or artist identifiers. Only NextSong events are plays.
const songplayInsertSQL = `INSERT INTO songplays (start_time, user_id, level, song_id,
                       artist_id, session_id, location, user_agent)
SELECT DISTINCT
    staging_events.ts,
    staging_events.userId,
    staging_events.level,
    staging_songs.song_id,
    staging_songs.artist_id,
    staging_events.sessionId,
    staging_events.location,
    staging_events.userAgent
FROM staging_events
INNER JOIN staging_songs
    ON staging_events.song = staging_songs.title
    AND staging_events.artist = staging_songs.artist_name
WHERE staging_events.page = 'NextSong'`

const userInsertSQL = `INSERT INTO users (user_id, first_name, last_name, gender, level)
SELECT DISTINCT
    userId,
    firstName,
    lastName,
    gender,
    level
FROM staging_events
WHERE staging_events.page = 'NextSong'`

const songInsertSQL = `INSERT INTO songs (song_id, title, artist_id, year, duration)
SELECT DISTINCT
    song_id,
    title,
    artist_id,
    year,
    duration
FROM staging_songs`

const artistInsertSQL = `INSERT INTO artists (artist_id, name, location, latitude, longitude)
SELECT DISTINCT
    artist_id,
    artist_name,
    artist_location,
    artist_latitude,
    artist_longitude
FROM staging_songs`

// start_time keeps the millisecond epoch of the event so that it joins
// songplays.start_time. DOW counts from 0 = Sunday; WEEK is the ISO week.
const timeInsertSQL = `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
SELECT DISTINCT
    ts AS start_time,
    EXTRACT(HOUR FROM event_time) AS hour,
    EXTRACT(DAY FROM event_time) AS day,
    EXTRACT(WEEK FROM event_time) AS week,
    EXTRACT(MONTH FROM event_time) AS month,
    EXTRACT(YEAR FROM event_time) AS year,
    EXTRACT(DOW FROM event_time) AS weekday
FROM (
    SELECT
        ts,
        TIMESTAMP 'epoch' + ts / 1000 * INTERVAL '1 SECOND' AS event_time
    FROM staging_events
    WHERE ts IS NOT NULL
) events`

func insertStatements() Collection {
	return mustCollection(KindInsert,
		Statement{Name: "songplay_table_insert", Kind: KindInsert, Table: "songplays", SQL: songplayInsertSQL},
		Statement{Name: "user_table_insert", Kind: KindInsert, Table: "users", SQL: userInsertSQL},
		Statement{Name: "song_table_insert", Kind: KindInsert, Table: "songs", SQL: songInsertSQL},
		Statement{Name: "artist_table_insert", Kind: KindInsert, Table: "artists", SQL: artistInsertSQL},
		Statement{Name: "time_table_insert", Kind: KindInsert, Table: "time", SQL: timeInsertSQL},
	)
}
