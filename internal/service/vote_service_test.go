package service

import (
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// 单连接串行化写入，贴近 MySQL 行锁下的互斥行为
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Post{},
		&model.Comment{},
		&model.PostVote{},
		&model.CommentVote{},
		&model.KarmaTransaction{},
	))
	return db
}

func newVoteServiceForTest(db *gorm.DB) VoteService {
	return NewVoteService(
		db,
		repository.NewPostVotableStore(db),
		repository.NewCommentVotableStore(db),
		repository.NewKarmaRepo(db),
		repository.NewUserRepo(db),
		nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@test.local", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint64) *model.Post {
	t.Helper()
	community := &model.Community{Name: "c", Slug: "c-" + uuid.NewString(), CreatorID: authorID}
	require.NoError(t, db.Create(community).Error)
	post := &model.Post{UserID: authorID, CommunityID: community.ID, Title: "t", PostType: model.PostTypeText}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, authorID, postID uint64) *model.Comment {
	t.Helper()
	comment := &model.Comment{PostID: postID, UserID: authorID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func authorKarma(t *testing.T, db *gorm.DB, userID uint64) int64 {
	t.Helper()
	var user model.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.Karma
}

func postScore(t *testing.T, db *gorm.DB, postID uint64) int64 {
	t.Helper()
	var post model.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.Score
}

func TestVoteStateMachine(t *testing.T) {
	cases := []struct {
		name        string
		sequence    []model.VoteType
		wantScore   int64
		wantMessage string
		wantRow     *model.VoteType
		wantReasons []string
	}{
		{
			name:        "首次点赞",
			sequence:    []model.VoteType{model.VoteUp},
			wantScore:   1,
			wantMessage: "Vote recorded",
			wantRow:     ptr(model.VoteUp),
			wantReasons: []string{model.ReasonPostUpvote},
		},
		{
			name:        "首次点踩",
			sequence:    []model.VoteType{model.VoteDown},
			wantScore:   -1,
			wantMessage: "Vote recorded",
			wantRow:     ptr(model.VoteDown),
			wantReasons: []string{model.ReasonPostDownvote},
		},
		{
			name:        "重复点赞等于撤票",
			sequence:    []model.VoteType{model.VoteUp, model.VoteUp},
			wantScore:   0,
			wantMessage: "Vote removed",
			wantRow:     nil,
			wantReasons: []string{model.ReasonPostUpvote, model.ReasonPostUpvoteRemoved},
		},
		{
			name:        "重复点踩等于撤票",
			sequence:    []model.VoteType{model.VoteDown, model.VoteDown},
			wantScore:   0,
			wantMessage: "Vote removed",
			wantRow:     nil,
			wantReasons: []string{model.ReasonPostDownvote, model.ReasonPostDownvoteRemoved},
		},
		{
			name:        "赞换踩摆动两分",
			sequence:    []model.VoteType{model.VoteUp, model.VoteDown},
			wantScore:   -1,
			wantMessage: "Vote updated",
			wantRow:     ptr(model.VoteDown),
			wantReasons: []string{model.ReasonPostUpvote, model.ReasonPostDownvote},
		},
		{
			name:        "踩换赞摆动两分",
			sequence:    []model.VoteType{model.VoteDown, model.VoteUp},
			wantScore:   1,
			wantMessage: "Vote updated",
			wantRow:     ptr(model.VoteUp),
			wantReasons: []string{model.ReasonPostDownvote, model.ReasonPostUpvote},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := newVoteServiceForTest(db)
			ctx := context.Background()

			author := seedUser(t, db, "author")
			voter := seedUser(t, db, "voter")
			post := seedPost(t, db, author.ID)

			var lastMessage string
			for _, vt := range tc.sequence {
				result, err := svc.Vote(ctx, voter.ID, model.EntityPost, post.ID, vt)
				require.NoError(t, err)
				lastMessage = result.Message
			}

			assert.Equal(t, tc.wantMessage, lastMessage)
			assert.Equal(t, tc.wantScore, postScore(t, db, post.ID))
			assert.Equal(t, tc.wantScore, authorKarma(t, db, author.ID))

			row, err := svc.GetVoteType(ctx, voter.ID, model.EntityPost, post.ID)
			require.NoError(t, err)
			if tc.wantRow == nil {
				assert.Nil(t, row)
			} else {
				require.NotNil(t, row)
				assert.Equal(t, *tc.wantRow, *row)
			}

			var txns []model.KarmaTransaction
			require.NoError(t, db.Order("id ASC").Find(&txns).Error)
			require.Len(t, txns, len(tc.wantReasons))
			for i, reason := range tc.wantReasons {
				assert.Equal(t, reason, txns[i].Reason)
				assert.Equal(t, author.ID, txns[i].UserID)
				assert.Equal(t, model.EntityPost, txns[i].EntityKind)
				assert.Equal(t, post.ID, txns[i].EntityID)
			}
		})
	}
}

// 赞 → 换踩 → 再踩撤票，流水为 [+1, -2, +1]，总和归零
func TestVoteLedgerSequence(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	post := seedPost(t, db, author.ID)

	for _, vt := range []model.VoteType{model.VoteUp, model.VoteDown, model.VoteDown} {
		_, err := svc.Vote(ctx, voter.ID, model.EntityPost, post.ID, vt)
		require.NoError(t, err)
	}

	var txns []model.KarmaTransaction
	require.NoError(t, db.Order("id ASC").Find(&txns).Error)
	require.Len(t, txns, 3)
	assert.Equal(t, int64(1), txns[0].Delta)
	assert.Equal(t, int64(-2), txns[1].Delta)
	assert.Equal(t, int64(1), txns[2].Delta)

	assert.Equal(t, int64(0), postScore(t, db, post.ID))
	assert.Equal(t, int64(0), authorKarma(t, db, author.ID))

	// 缓存声望与流水总和必须一致
	sum, err := repository.NewKarmaRepo(db).SumByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, authorKarma(t, db, author.ID), sum)
}

func TestVoteOnComment(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	postAuthor := seedUser(t, db, "post-author")
	commentAuthor := seedUser(t, db, "comment-author")
	voter := seedUser(t, db, "voter")
	post := seedPost(t, db, postAuthor.ID)
	comment := seedComment(t, db, commentAuthor.ID, post.ID)

	result, err := svc.Vote(ctx, voter.ID, model.EntityComment, comment.ID, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, "Vote recorded", result.Message)
	assert.Equal(t, int64(1), result.Score)

	// 声望记到评论作者头上，帖子作者不受影响
	assert.Equal(t, int64(1), authorKarma(t, db, commentAuthor.ID))
	assert.Equal(t, int64(0), authorKarma(t, db, postAuthor.ID))

	var txn model.KarmaTransaction
	require.NoError(t, db.First(&txn).Error)
	assert.Equal(t, model.ReasonCommentUpvote, txn.Reason)
	assert.Equal(t, model.EntityComment, txn.EntityKind)
}

func TestVoteTargetChecks(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	post := seedPost(t, db, author.ID)

	t.Run("非法投票方向", func(t *testing.T) {
		_, err := svc.Vote(ctx, voter.ID, model.EntityPost, post.ID, "sideways")
		assert.ErrorIs(t, err, ErrVoteTypeInvalid)
	})

	t.Run("帖子不存在", func(t *testing.T) {
		_, err := svc.Vote(ctx, voter.ID, model.EntityPost, 99999, model.VoteUp)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("评论不存在", func(t *testing.T) {
		_, err := svc.Vote(ctx, voter.ID, model.EntityComment, 99999, model.VoteUp)
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})

	t.Run("软删帖子视同不存在", func(t *testing.T) {
		deleted := seedPost(t, db, author.ID)
		require.NoError(t, db.Model(deleted).Update("is_deleted", true).Error)
		_, err := svc.Vote(ctx, voter.ID, model.EntityPost, deleted.ID, model.VoteUp)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("锁定帖子拒绝投票", func(t *testing.T) {
		require.NoError(t, db.Model(post).Update("is_locked", true).Error)
		_, err := svc.Vote(ctx, voter.ID, model.EntityPost, post.ID, model.VoteUp)
		assert.ErrorIs(t, err, ErrPostLocked)
		assert.Equal(t, int64(0), postScore(t, db, post.ID))
	})
}

// 软删评论的既有投票流水保留，新投票被拒
func TestVoteOnDeletedComment(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "voter")
	post := seedPost(t, db, author.ID)
	comment := seedComment(t, db, author.ID, post.ID)

	_, err := svc.Vote(ctx, voter.ID, model.EntityComment, comment.ID, model.VoteUp)
	require.NoError(t, err)

	require.NoError(t, db.Model(comment).Update("is_deleted", true).Error)

	_, err = svc.Vote(ctx, voter.ID, model.EntityComment, comment.ID, model.VoteDown)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	var count int64
	require.NoError(t, db.Model(&model.KarmaTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(1), authorKarma(t, db, author.ID))
}

// 自己给自己的帖子投票是允许的，声望照常入账
func TestVoteOwnPost(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID)

	_, err := svc.Vote(ctx, author.ID, model.EntityPost, post.ID, model.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), authorKarma(t, db, author.ID))
}

func TestVoteConcurrentUpvoters(t *testing.T) {
	db := newTestDB(t)
	svc := newVoteServiceForTest(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID)

	const voters = 100
	voterIDs := make([]uint64, 0, voters)
	for i := 0; i < voters; i++ {
		voterIDs = append(voterIDs, seedUser(t, db, fmt.Sprintf("voter-%d", i)).ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for _, voterID := range voterIDs {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_, err := svc.Vote(ctx, id, model.EntityPost, post.ID, model.VoteUp)
			errs <- err
		}(voterID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int64(voters), postScore(t, db, post.ID))
	assert.Equal(t, int64(voters), authorKarma(t, db, author.ID))

	// 分数 = 生效赞数 − 生效踩数
	store := repository.NewPostVotableStore(db)
	ups, err := store.CountVotes(ctx, post.ID, model.VoteUp)
	require.NoError(t, err)
	downs, err := store.CountVotes(ctx, post.ID, model.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, postScore(t, db, post.ID), ups-downs)

	var txnCount int64
	require.NoError(t, db.Model(&model.KarmaTransaction{}).Count(&txnCount).Error)
	assert.Equal(t, int64(voters), txnCount)

	var voteCount int64
	require.NoError(t, db.Model(&model.PostVote{}).Count(&voteCount).Error)
	assert.Equal(t, int64(voters), voteCount)
}

func ptr(v model.VoteType) *model.VoteType {
	return &v
}
