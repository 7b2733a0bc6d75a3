package database

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shareit/pkg/config"
	"shareit/pkg/models"
)

func TestOpenSQLite(t *testing.T) {
	db := OpenTest(t)

	require.NoError(t, Ping(context.Background(), db))
	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := OpenTest(t)

	err := db.Create(&models.Item{Name: "ghost", Description: "no owner", Available: true, OwnerID: 99}).Error
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestUniqueEmailTranslated(t *testing.T) {
	db := OpenTest(t)

	require.NoError(t, db.Create(&models.User{Name: "Nick", Email: "nick@mail.ru"}).Error)
	err := db.Create(&models.User{Name: "Other", Email: "nick@mail.ru"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDeleteUserCascades(t *testing.T) {
	db := OpenTest(t)

	owner := models.User{Name: "Owner", Email: "owner@mail.ru"}
	asker := models.User{Name: "Asker", Email: "asker@mail.ru"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&asker).Error)

	req := models.ItemRequest{Description: "need a drill", RequesterID: asker.ID}
	require.NoError(t, db.Create(&req).Error)
	item := models.Item{Name: "drill", Description: "cordless", Available: true, OwnerID: owner.ID, RequestID: &req.ID}
	require.NoError(t, db.Create(&item).Error)

	require.NoError(t, db.Delete(&models.User{}, asker.ID).Error)

	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Nil(t, reloaded.RequestID)

	require.NoError(t, db.Delete(&models.User{}, owner.ID).Error)
	var count int64
	db.Model(&models.Item{}).Count(&count)
	assert.Zero(t, count)
}

func TestUnsupportedDriver(t *testing.T) {
	log := zerolog.Nop()
	_, err := Open(config.DatabaseConfig{Driver: "mysql"}, &log)
	assert.Error(t, err)
}
