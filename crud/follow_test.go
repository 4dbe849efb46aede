package crud

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/errs"
)

func TestFollow_Idempotent(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	fs := NewFollowService(db)

	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	count, err := fs.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Following again leaves exactly one edge.
	count, err = fs.Follow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	followers, err := fs.CountFollowers(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers)
}

func TestFollow_SelfFollowIsNoOp(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	fs := NewFollowService(db)

	alice := createTestUser(t, us, "alice")

	count, err := fs.Follow(alice.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "a self-follow must never create an edge")
}

func TestFollow_UnknownTarget(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	fs := NewFollowService(db)

	alice := createTestUser(t, us, "alice")

	_, err := fs.Follow(alice.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUnfollow(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	fs := NewFollowService(db)

	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	// Unfollowing without an edge is a no-op.
	require.NoError(t, fs.Unfollow(alice.ID, bob.ID))
	count, err := fs.CountFollowing(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = fs.Follow(alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, fs.Unfollow(alice.ID, bob.ID))
	count, err = fs.CountFollowing(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// And again, still a no-op.
	require.NoError(t, fs.Unfollow(alice.ID, bob.ID))
}

func TestFollow_ConcurrentDuplicates(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	fs := NewFollowService(db)

	alice := createTestUser(t, us, "alice")
	bob := createTestUser(t, us, "bob")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fs.Follow(alice.ID, bob.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := fs.CountFollowing(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "concurrent duplicate follows must settle on one edge")
}
