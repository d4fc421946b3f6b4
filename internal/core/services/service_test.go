package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
	infradb "github.com/tasktrail/backend/internal/infrastructure/db"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the real repositories against a throwaway sqlite database
// so the lifecycle rules are exercised through actual reads and writes.
type testEnv struct {
	db      *gorm.DB
	tasks   ports.TaskRepository
	history ports.HistoryRepository
	users   ports.UserRepository
	streams ports.StreamService
	svc     ports.TaskService
	hsvc    ports.HistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, infradb.RunMigrations(database))

	log := logger.NewNop()
	tasks := infradb.NewTaskRepository(database, log)
	history := infradb.NewHistoryRepository(database, log)
	users := infradb.NewUserRepository(database, log)

	streams := NewStreamService(StreamServiceConfig{
		Tasks:   tasks,
		History: history,
		Logger:  log,
	})

	env := &testEnv{
		db:      database,
		tasks:   tasks,
		history: history,
		users:   users,
		streams: streams,
	}
	env.svc = NewTaskService(TaskServiceConfig{
		Tasks:   tasks,
		History: history,
		Streams: streams,
		Logger:  log,
	})
	env.hsvc = NewHistoryService(HistoryServiceConfig{
		History: history,
		Streams: streams,
		Logger:  log,
	})

	t.Cleanup(func() {
		sqlDB, err := database.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return env
}

func (e *testEnv) allHistory(t *testing.T, ownerID string) []domain.HistoryRecord {
	t.Helper()
	records, err := e.history.GetAllByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	return records
}

func (e *testEnv) allTasks(t *testing.T, ownerID string) []domain.Task {
	t.Helper()
	tasks, err := e.tasks.GetAllByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	return tasks
}

func testSession() domain.Session {
	return domain.Session{
		UserID:      "11111111-1111-1111-1111-111111111111",
		Email:       "alice@example.com",
		DisplayName: "Alice Tester",
	}
}

func otherSession() domain.Session {
	return domain.Session{
		UserID: "22222222-2222-2222-2222-222222222222",
		Email:  "bob@example.com",
	}
}
