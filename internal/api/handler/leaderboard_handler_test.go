package handler

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/repository"
	"Agora/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLeaderboardRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	karmaSvc := service.NewKarmaService(repository.NewKarmaRepo(db), repository.NewUserRepo(db))
	h := NewLeaderboardHandler(karmaSvc)

	r := gin.New()
	r.GET("/api/users/leaderboard", h.GetLeaderboard)
	return r
}

func getLeaderboard(t *testing.T, r *gin.Engine, query string) (*httptest.ResponseRecorder, *dto.LeaderboardDTO) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/users/leaderboard"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return w, nil
	}
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var board dto.LeaderboardDTO
	require.NoError(t, json.Unmarshal(data, &board))
	return w, &board
}

func TestLeaderboardEndpoint(t *testing.T) {
	db := newTestDB(t)

	alice := &model.User{Username: "alice", Email: "alice@test.local", Password: "x", Karma: 30}
	bob := &model.User{Username: "bob", Email: "bob@test.local", Password: "x", Karma: 80}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)
	require.NoError(t, db.Create(&model.KarmaTransaction{
		UserID: alice.ID, Delta: 4, Reason: model.ReasonPostUpvote,
		EntityKind: model.EntityPost, EntityID: 1, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)

	r := setupLeaderboardRouter(t, db)

	t.Run("全时段榜", func(t *testing.T) {
		w, board := getLeaderboard(t, r, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "all_time", board.Period)
		require.Len(t, board.Leaderboard, 2)
		assert.Equal(t, "bob", board.Leaderboard[0].Username)
		assert.Equal(t, int64(80), board.Leaderboard[0].Karma)
	})

	t.Run("时间窗榜", func(t *testing.T) {
		w, board := getLeaderboard(t, r, "?window=24h")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "24h", board.Period)
		require.Len(t, board.Leaderboard, 1)
		assert.Equal(t, "alice", board.Leaderboard[0].Username)
		assert.Equal(t, int64(4), board.Leaderboard[0].Karma)
	})

	t.Run("窗口外流水不计入", func(t *testing.T) {
		w, board := getLeaderboard(t, r, "?window=30m")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, board.Leaderboard)
	})

	t.Run("非法窗口返回400", func(t *testing.T) {
		w, _ := getLeaderboard(t, r, "?window=yesterday")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("负窗口返回400", func(t *testing.T) {
		w, _ := getLeaderboard(t, r, "?window=-1h")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("limit收敛到上限", func(t *testing.T) {
		w, board := getLeaderboard(t, r, "?limit=500")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, board.Leaderboard, 2)
	})
}
