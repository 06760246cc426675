package fixtures

import (
	"context"
	"database/sql"
	"fmt"
)

// Event is one row of staging_events. Nil pointers insert NULL.
type Event struct {
	Artist    *string
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Location  string
	Page      string
	SessionID int
	Song      *string
	Ts        *int64
	UserAgent string
	UserID    *int64
}

// Song is one row of staging_songs.
type Song struct {
	SongID         string
	Title          string
	ArtistID       string
	ArtistName     string
	ArtistLocation string
	Year           int
	Duration       float64
}

// StagingFixtureBuilder provides a fluent API for populating the staging
// tables directly, standing in for the S3 COPY statements.
//
// Example usage:
//
//	err := NewStagingFixtureBuilder().
//	    AddEvent(fixtures.NextSong(1, "Test Song", "Test Artist", 1541105830796)).
//	    AddSong(fixtures.Song{SongID: "S1", Title: "Test Song", ArtistID: "A1", ArtistName: "Test Artist"}).
//	    Seed(ctx, conn)
type StagingFixtureBuilder struct {
	events []Event
	songs  []Song
}

// NewStagingFixtureBuilder creates an empty builder.
func NewStagingFixtureBuilder() *StagingFixtureBuilder {
	return &StagingFixtureBuilder{}
}

// AddEvent appends staging_events rows.
func (b *StagingFixtureBuilder) AddEvent(events ...Event) *StagingFixtureBuilder {
	b.events = append(b.events, events...)
	return b
}

// AddSong appends staging_songs rows.
func (b *StagingFixtureBuilder) AddSong(songs ...Song) *StagingFixtureBuilder {
	b.songs = append(b.songs, songs...)
	return b
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Seed inserts every row. The staging tables must already exist.
func (b *StagingFixtureBuilder) Seed(ctx context.Context, conn Execer) error {
	for i, e := range b.events {
		_, err := conn.ExecContext(ctx, `INSERT INTO staging_events
			(artist, firstName, lastName, gender, level, location, page, sessionId, song, ts, userAgent, userId)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			e.Artist, e.FirstName, e.LastName, e.Gender, e.Level, e.Location,
			e.Page, e.SessionID, e.Song, e.Ts, e.UserAgent, e.UserID)
		if err != nil {
			return fmt.Errorf("seed staging_events row %d: %w", i, err)
		}
	}
	for i, s := range b.songs {
		_, err := conn.ExecContext(ctx, `INSERT INTO staging_songs
			(num_songs, artist_id, artist_location, artist_name, song_id, title, duration, year)
			VALUES (1, $1, $2, $3, $4, $5, $6, $7)`,
			s.ArtistID, s.ArtistLocation, s.ArtistName, s.SongID, s.Title, s.Duration, s.Year)
		if err != nil {
			return fmt.Errorf("seed staging_songs row %d: %w", i, err)
		}
	}
	return nil
}

// NextSong builds a play event for a paid user.
func NextSong(userID int64, song, artist string, ts int64) Event {
	return Event{
		Artist:    &artist,
		FirstName: "Lily",
		LastName:  "Koch",
		Gender:    "F",
		Level:     "paid",
		Location:  "Chicago-Naperville-Elgin, IL-IN-WI",
		Page:      "NextSong",
		SessionID: 172,
		Song:      &song,
		Ts:        &ts,
		UserAgent: "Mozilla/5.0",
		UserID:    &userID,
	}
}

// PageView builds a non-play event such as "Home" or "Logout".
func PageView(userID int64, page string, ts int64) Event {
	return Event{
		FirstName: "Lily",
		LastName:  "Koch",
		Gender:    "F",
		Level:     "paid",
		Page:      page,
		SessionID: 172,
		Ts:        &ts,
		UserID:    &userID,
	}
}
