package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 全量建表走同一个库，索引名在库级命名空间下也不能互相冲突
func TestMigrateAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:TestMigrateAllTables?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Community{},
		&CommunityMember{},
		&Post{},
		&Comment{},
		&PostVote{},
		&CommentVote{},
		&KarmaTransaction{},
	))
}
