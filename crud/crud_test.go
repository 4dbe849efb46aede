package crud

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inkwell/domain"
)

// --- Test Setup ---

// setupDB opens a fresh in-memory database with the full schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")
	// The in-memory database lives on a single connection; cap the
	// pool so every query and every goroutine sees the same one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Follow{},
	)
	require.NoError(t, err, "Failed to migrate test database")
	return db
}

// spyCache records feed cache interactions so tests can assert when
// the slot was cleared.
type spyCache struct {
	mu     sync.Mutex
	data   []byte
	filled bool
	Clears int
}

func (c *spyCache) Get() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.filled
}

func (c *spyCache) Set(rendered []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data, c.filled = rendered, true
}

func (c *spyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data, c.filled = nil, false
	c.Clears++
}

func createTestUser(t *testing.T, us *UserService, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Name:     fmt.Sprintf("Test %s", username),
	}
	require.NoError(t, us.Create(user), "Failed to create test user %s", username)
	require.True(t, user.ID > 0)
	return user
}

func createTestGroup(t *testing.T, gs *GroupService, slug string) *domain.Group {
	t.Helper()
	group := &domain.Group{
		Title:       "Group " + slug,
		Slug:        slug,
		Description: "test group",
	}
	require.NoError(t, gs.Create(group), "Failed to create test group %s", slug)
	return group
}

func createTestPost(t *testing.T, ps *PostService, authorID int, groupID *int, text string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
	}
	require.NoError(t, ps.Create(post), "Failed to create test post %q", text)
	return post
}

// backdatePost pushes a post's creation timestamp into the past so
// ordering tests don't depend on clock resolution.
func backdatePost(t *testing.T, db *gorm.DB, postID int, ago time.Duration) {
	t.Helper()
	err := db.Model(&domain.Post{}).
		Where("id = ?", postID).
		Update("created_at", time.Now().Add(-ago)).Error
	require.NoError(t, err)
}
