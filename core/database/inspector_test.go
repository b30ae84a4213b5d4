package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func showColumnsRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, name := range names {
		rows.AddRow(name, "varchar(64)", "NO", "PRI", nil, "")
	}
	return rows
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `puzzle_results`").
		WillReturnRows(showColumnsRows("User_ID", "Puzzle_Number"))

	columns, err := GetTableColumns(db, "puzzle_results")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	// Field and type are normalized to lower case.
	assert.Equal(t, "user_id", columns[0].Field)
	assert.Equal(t, "varchar(64)", columns[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_Sqlite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE puzzle_results (user_id TEXT, puzzle_number INTEGER)").Error)

	columns, err := GetTableColumns(db, "puzzle_results")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "user_id", columns[0].Field)
}

func TestMissingColumns(t *testing.T) {
	t.Run("AllPresent", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `puzzle_results`").
			WillReturnRows(showColumnsRows("user_id", "puzzle_number", "attempts"))

		missing, err := MissingColumns(db, "puzzle_results", []string{"user_id", "attempts"})
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("ReportsDrift", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `puzzle_results`").
			WillReturnRows(showColumnsRows("user_id"))

		missing, err := MissingColumns(db, "puzzle_results", []string{"user_id", "recorded_at"})
		require.NoError(t, err)
		assert.Equal(t, []string{"recorded_at"}, missing)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `puzzle_results`").
			WillReturnError(assert.AnError)

		_, err := MissingColumns(db, "puzzle_results", []string{"user_id"})
		assert.Error(t, err)
	})
}
