package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/domain"
	"inkwell/errs"
)

func TestCommentCreate(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	ps := NewPostService(db, &spyCache{})
	cs := NewCommentService(db)

	author := createTestUser(t, us, "alice")
	post := createTestPost(t, ps, author.ID, nil, "a post")

	comment := domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "nice"}
	require.NoError(t, cs.Create(&comment))
	assert.True(t, comment.ID > 0)
	assert.Equal(t, "alice", comment.Author.Username)

	err := cs.Create(&domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: " "})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	err = cs.Create(&domain.Comment{PostID: 9999, AuthorID: author.ID, Text: "orphan"})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestCommentsByPostID_OldestFirstAndScoped(t *testing.T) {
	db := setupDB(t)
	us := NewUserService(db, &spyCache{})
	ps := NewPostService(db, &spyCache{})
	cs := NewCommentService(db)

	author := createTestUser(t, us, "alice")
	post := createTestPost(t, ps, author.ID, nil, "threaded")
	other := createTestPost(t, ps, author.ID, nil, "other")

	first := domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}
	second := domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "second"}
	elsewhere := domain.Comment{PostID: other.ID, AuthorID: author.ID, Text: "elsewhere"}
	require.NoError(t, cs.Create(&first))
	require.NoError(t, cs.Create(&second))
	require.NoError(t, cs.Create(&elsewhere))
	err := db.Model(&domain.Comment{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)

	comments, err := cs.ByPostID(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2, "the thread must only contain the post's own comments")
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
}

func TestCommentsByPostID_MissingPost(t *testing.T) {
	db := setupDB(t)
	cs := NewCommentService(db)

	_, err := cs.ByPostID(424242)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
