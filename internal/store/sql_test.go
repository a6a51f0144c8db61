package store_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-contact-sync/internal/config"
	"github.com/tartampluch/go-contact-sync/internal/contact"
	"github.com/tartampluch/go-contact-sync/internal/store"
)

const selectQuery = "SELECT id, firstname, lastname, phone, birthday FROM contacts"

func TestSQLSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := mock.NewRows([]string{"id", "firstname", "lastname", "phone", "birthday"}).
		AddRow(1, "Aaron", "Smith", "+420 111", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(2, nil, "Solo", nil, nil)
	mock.ExpectQuery(selectQuery).WillReturnRows(rows)

	contacts, err := store.NewSQLSource(db).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"sql-1", "sql-2"}, contacts.IDs())

	aaron := contacts["sql-1"]
	assert.Equal(t, "Aaron Smith", aaron.DisplayName())
	bday, ok := aaron.Birthday()
	require.True(t, ok)
	assert.Equal(t, 1970, bday.Year())
	assert.Equal(t, []contact.Field{
		{Category: contact.CategoryPhone, Type: config.TypeOther, Value: "+420 111"},
	}, slices.Collect(aaron.Fields(contact.CategoryPhone)))

	solo := contacts["sql-2"]
	assert.Equal(t, "Solo", solo.DisplayName())
	_, ok = solo.Birthday()
	assert.False(t, ok)
	assert.Zero(t, solo.Count(contact.CategoryPhone), "NULL columns add nothing")
}

func TestSQLSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(selectQuery).WillReturnError(errors.New("connection refused"))

	_, err = store.NewSQLSource(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSQLQuery)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestOpenSQLSource(t *testing.T) {
	_, err := store.OpenSQLSource("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrDSNEmpty)

	_, err = store.OpenSQLSource("no slash here")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSQLOpen)

	src, err := store.OpenSQLSource("user:pass@tcp(127.0.0.1:3306)/contacts")
	require.NoError(t, err)
	assert.NoError(t, src.Close())
}
