package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentServiceForTest(db *gorm.DB) CommentService {
	voteSvc := newVoteServiceForTest(db)
	return NewCommentService(
		db,
		repository.NewCommentRepo(db),
		repository.NewPostRepo(db),
		repository.NewUserRepo(db),
		voteSvc,
	)
}

func TestCreateCommentUpdatesCount(t *testing.T) {
	db := newTestDB(t)
	svc := newCommentServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID)

	comment, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{
		PostID:  post.ID,
		Content: "first",
	})
	require.NoError(t, err)
	assert.Equal(t, "first", comment.Content)
	assert.Equal(t, "author", comment.Username)

	var reloaded model.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, 1, reloaded.CommentsCount)
}

func TestCreateCommentChecks(t *testing.T) {
	db := newTestDB(t)
	svc := newCommentServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID)
	other := seedPost(t, db, author.ID)

	t.Run("帖子不存在", func(t *testing.T) {
		_, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: 99999, Content: "x"})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("锁定帖子拒绝评论", func(t *testing.T) {
		locked := seedPost(t, db, author.ID)
		require.NoError(t, db.Model(locked).Update("is_locked", true).Error)
		_, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: locked.ID, Content: "x"})
		assert.ErrorIs(t, err, ErrPostLocked)
	})

	t.Run("父评论必须属于同一帖子", func(t *testing.T) {
		parent, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: other.ID, Content: "p"})
		require.NoError(t, err)
		_, err = svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{
			PostID:   post.ID,
			ParentID: parent.CommentID,
			Content:  "x",
		})
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})
}

func TestGetCommentTree(t *testing.T) {
	db := newTestDB(t)
	svc := newCommentServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID)

	rootA, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: post.ID, Content: "root-a"})
	require.NoError(t, err)
	rootB, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: post.ID, Content: "root-b"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{
		PostID: post.ID, ParentID: rootA.CommentID, Content: "reply-a1",
	})
	require.NoError(t, err)

	// 高分根评论排前
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", rootB.CommentID).Update("score", 5).Error)

	tree, err := svc.GetCommentTree(ctx, 0, post.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, rootB.CommentID, tree[0].CommentID)
	assert.Empty(t, tree[0].Replies)
	require.Len(t, tree[1].Replies, 1)
	assert.Equal(t, "reply-a1", tree[1].Replies[0].Content)
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	svc := newCommentServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	stranger := seedUser(t, db, "stranger")
	post := seedPost(t, db, author.ID)

	comment, err := svc.CreateComment(ctx, author.ID, &dto.CreateCommentDTO{PostID: post.ID, Content: "x"})
	require.NoError(t, err)

	t.Run("他人不能删除", func(t *testing.T) {
		err := svc.DeleteComment(ctx, stranger.ID, comment.CommentID)
		assert.ErrorIs(t, err, PermissionDenied)
	})

	t.Run("作者软删并回收计数", func(t *testing.T) {
		require.NoError(t, svc.DeleteComment(ctx, author.ID, comment.CommentID))

		var reloaded model.Comment
		require.NoError(t, db.First(&reloaded, comment.CommentID).Error)
		assert.True(t, reloaded.IsDeleted)

		var p model.Post
		require.NoError(t, db.First(&p, post.ID).Error)
		assert.Equal(t, 0, p.CommentsCount)
	})
}
