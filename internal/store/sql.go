package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
)

const selectContacts = `
	SELECT id, firstname, lastname, phone, birthday FROM contacts ORDER BY id
`

// sqlContact is one row of the contacts table.
// All columns with the exception of id are nullable.
type sqlContact struct {
	ID        int64      `db:"id"`
	FirstName *string    `db:"firstname"`
	LastName  *string    `db:"lastname"`
	Phone     *string    `db:"phone"`
	Birthday  *time.Time `db:"birthday"`
}

// SQLSource reads contacts from a MySQL database.
type SQLSource struct {
	db *sqlx.DB
}

// OpenSQLSource opens a connection pool for dsn. Time columns are always
// scanned as time.Time.
func OpenSQLSource(dsn string) (*SQLSource, error) {
	if dsn == "" {
		return nil, errors.New(config.ErrDSNEmpty)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSQLOpen, err)
	}
	cfg.ParseTime = true

	db, err := sqlx.Open(config.SQLDriver, cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSQLOpen, err)
	}
	return &SQLSource{db: db}, nil
}

// NewSQLSource wraps an existing database handle, a real one or a mock in tests.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: sqlx.NewDb(db, config.SQLDriver)}
}

// Load implements Source. Row identifiers are prefixed so they never collide
// with identifiers the device hands out.
func (s *SQLSource) Load(ctx context.Context) (contact.Map, error) {
	var rows []sqlContact
	if err := s.db.SelectContext(ctx, &rows, selectContacts); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSQLQuery, err)
	}

	contacts := make(contact.Map, len(rows))
	for _, row := range rows {
		c := contact.NewPerson()
		c.Set(contact.FirstName, deref(row.FirstName))
		c.Set(contact.LastName, deref(row.LastName))
		c.AddPhone(deref(row.Phone), config.TypeOther, "")
		if row.Birthday != nil {
			c.SetBirthday(*row.Birthday)
		}
		contacts[config.SQLIDPrefix+strconv.FormatInt(row.ID, 10)] = c
	}

	slog.Info(config.MsgSourceLoaded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyMode, config.SourceModeSQL,
		config.LogKeyContacts, len(contacts),
	)
	return contacts, nil
}

// Close releases the connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
