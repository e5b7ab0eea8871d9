package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func TestTaskRepository_UpdateOrder_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`UPDATE "tasks" SET "task_order"=.+ WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateOrder(5, 2)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a task must remove its sync mappings in the same transaction so
// a dangling mapping can never block a future re-import.
func TestTaskRepository_Delete_RemovesMappingsTransactionally(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sync_mappings" WHERE task_id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE "tasks"."id" = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_OrdersBySiblingOrderThenDueDate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE tasks\.user_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = .+ ORDER BY tasks\.task_order ASC, CASE WHEN tasks\.due_date IS NULL THEN 1 ELSE 0 END, tasks\.due_date ASC, tasks\.created_at ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.List(TaskFilter{UserID: 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
