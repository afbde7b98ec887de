/*
Package store persists transfer maps in a SQLite database.

Every resolved code point of a font becomes one row of table font_dict,
keyed by the site the font was scraped from, the font's name and the code
point in "U+XXXX" notation:

	CREATE TABLE font_dict (
	    site_name   TEXT NOT NULL,
	    font_name   TEXT NOT NULL,
	    unicode     TEXT NOT NULL,
	    true_string TEXT NOT NULL,
	    PRIMARY KEY (site_name, font_name, unicode)
	)

The database is accessed with the pure-Go driver modernc.org/sqlite.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/reconcile"
	"github.com/npillmayer/schuko/tracing"
	_ "modernc.org/sqlite" // registers driver "sqlite"
)

// tracer traces with key 'fontocr.store'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.store")
}

const schema = `CREATE TABLE IF NOT EXISTS font_dict (
	site_name   TEXT NOT NULL,
	font_name   TEXT NOT NULL,
	unicode     TEXT NOT NULL,
	true_string TEXT NOT NULL,
	PRIMARY KEY (site_name, font_name, unicode)
)`

const upsert = `INSERT INTO font_dict (site_name, font_name, unicode, true_string)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (site_name, font_name, unicode) DO UPDATE SET true_string = excluded.true_string`

// Store is a font dictionary database.
type Store struct {
	db  *sql.DB
	dsn string
}

// Open opens or creates the database at dsn, a file path or any data
// source name understood by the sqlite driver, and makes sure table
// font_dict exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, core.Error(core.EMISSING, "no database given")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot open database %s", dsn)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, core.WrapError(err, core.ECONNECTION, "cannot create font_dict in %s", dsn)
	}
	tracer().Debugf("opened font dictionary %s", dsn)
	return &Store{db: db, dsn: dsn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes all entries of tm for a font of a site, replacing earlier
// strings for the same code points, in a single transaction. It returns
// the number of rows written.
func (s *Store) Save(ctx context.Context, site, font string, tm *reconcile.TransferMap) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // no-op after commit
	stmt, err := tx.PrepareContext(ctx, upsert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	entries := tm.Entries() // one snapshot, tm may grow concurrently
	cps := make([]rune, 0, len(entries))
	for r := range entries {
		cps = append(cps, r)
	}
	slices.Sort(cps)
	n := 0
	for _, r := range cps {
		if _, err := stmt.ExecContext(ctx, site, font, FormatCodePoint(r), entries[r]); err != nil {
			return 0, fmt.Errorf("saving %s of %s/%s: %w", FormatCodePoint(r), site, font, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	tracer().Infof("saved %d entries for %s/%s", n, site, font)
	return n, nil
}

// Load reads the transfer map of a font of a site. A font without entries
// yields an empty map.
func (s *Store) Load(ctx context.Context, site, font string) (*reconcile.TransferMap, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unicode, true_string FROM font_dict WHERE site_name = ? AND font_name = ?`,
		site, font)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[rune]string)
	for rows.Next() {
		var cp, str string
		if err := rows.Scan(&cp, &str); err != nil {
			return nil, err
		}
		r, err := ParseCodePoint(cp)
		if err != nil {
			tracer().Errorf("skipping malformed row %s/%s/%s", site, font, cp)
			continue
		}
		m[r] = str
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reconcile.FromMap(m), nil
}

// Fonts lists the fonts stored for a site, in alphabetical order.
func (s *Store) Fonts(ctx context.Context, site string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT font_name FROM font_dict WHERE site_name = ? ORDER BY font_name`, site)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fonts []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		fonts = append(fonts, f)
	}
	return fonts, rows.Err()
}

// Delete removes all entries of a font of a site.
func (s *Store) Delete(ctx context.Context, site, font string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM font_dict WHERE site_name = ? AND font_name = ?`, site, font)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FormatCodePoint formats r as "U+XXXX", with at least four hex digits.
func FormatCodePoint(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}

// ParseCodePoint parses "U+XXXX" (case-insensitive prefix).
func ParseCodePoint(s string) (rune, error) {
	if len(s) < 3 || !strings.EqualFold(s[:2], "U+") {
		return 0, core.Error(core.EINVALID, "code point %q not in U+XXXX notation", s)
	}
	n, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil || n > 0x10FFFF {
		return 0, core.Error(core.EINVALID, "code point %q out of range", s)
	}
	return rune(n), nil
}
