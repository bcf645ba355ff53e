package gormdb_test

import (
	"context"
	"testing"
	"time"

	"master_crm/internal/domain"
	"master_crm/internal/model"
	"master_crm/internal/repository/gormdb/gormdbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64  { return &v }

func TestMasterLookups(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	master := model.NewMaster(100, "Анна", "tok-100")
	master.Sphere = strPtr("маникюр")
	require.NoError(t, repo.CreateMaster(ctx, master))
	require.NotZero(t, master.ID)

	byTg, err := repo.FindMasterByTgID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, master.ID, byTg.ID)
	assert.Equal(t, "маникюр", *byTg.Sphere)
	assert.Nil(t, byTg.Contacts)
	assert.True(t, byTg.BonusEnabled)
	assert.Equal(t, model.DefaultBonusBirthday, byTg.BonusBirthday)

	byToken, err := repo.FindMasterByInviteToken(ctx, "tok-100")
	require.NoError(t, err)
	assert.Equal(t, master.ID, byToken.ID)

	byID, err := repo.FindMasterByID(ctx, master.ID)
	require.NoError(t, err)
	assert.Equal(t, "Анна", byID.Name)

	_, err = repo.FindMasterByInviteToken(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindMasterByTgID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateMaster_UniqueTgIDAndToken(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	require.NoError(t, repo.CreateMaster(ctx, model.NewMaster(1, "A", "same")))
	assert.Error(t, repo.CreateMaster(ctx, model.NewMaster(2, "B", "same")))
	assert.Error(t, repo.CreateMaster(ctx, model.NewMaster(1, "C", "other")))
}

func TestClientPhoneIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	require.NoError(t, repo.CreateClient(ctx, &model.Client{Name: "A", Phone: strPtr("+79120000000")}))
	assert.Error(t, repo.CreateClient(ctx, &model.Client{Name: "B", Phone: strPtr("+79120000000")}))

	// клиентов без телефона может быть сколько угодно
	require.NoError(t, repo.CreateClient(ctx, &model.Client{Name: "C"}))
	require.NoError(t, repo.CreateClient(ctx, &model.Client{Name: "D"}))
}

func TestUpdateClient(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	client := &model.Client{Name: "Старое", Phone: strPtr("+79121111111")}
	require.NoError(t, repo.CreateClient(ctx, client))

	bday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateClient(ctx, client.ID, domain.ClientUpdate{
		TgID:     int64Ptr(42),
		Name:     strPtr("Новое"),
		Birthday: &bday,
	}))

	got, err := repo.FindClientByTgID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)
	assert.Equal(t, "Новое", got.Name)
	require.NotNil(t, got.Birthday)
	assert.True(t, bday.Equal(*got.Birthday))
	assert.Nil(t, got.RegisteredVia)

	assert.ErrorIs(t, repo.UpdateClient(ctx, 9999, domain.ClientUpdate{Name: strPtr("x")}), domain.ErrNotFound)
	assert.NoError(t, repo.UpdateClient(ctx, client.ID, domain.ClientUpdate{}))
}

func TestUpsertRelationship_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	master := model.NewMaster(1, "Мастер", "tok")
	require.NoError(t, repo.CreateMaster(ctx, master))
	client := &model.Client{Name: "Клиент"}
	require.NoError(t, repo.CreateClient(ctx, client))

	first, err := repo.UpsertRelationship(ctx, master.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.BonusBalance)
	assert.Equal(t, 0, first.TotalSpent)
	assert.True(t, first.NotifyReminders)
	assert.True(t, first.NotifyMarketing)
	assert.Nil(t, first.FirstVisit)
	assert.Nil(t, first.LastVisit)

	second, err := repo.UpsertRelationship(ctx, master.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, repo.DB.Model(&model.MasterClient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	latest, err := repo.FindLatestRelationship(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
}

func TestUpsertRelationship_RequiresExistingRows(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	_, err := repo.UpsertRelationship(ctx, 777, 888)
	assert.Error(t, err)
}

func TestUnsyncedRelationships(t *testing.T) {
	ctx := context.Background()
	repo := gormdbtest.NewRepository(t)

	master := model.NewMaster(1, "Мастер", "tok")
	require.NoError(t, repo.CreateMaster(ctx, master))
	client := &model.Client{Name: "Клиент", Phone: strPtr("+79125555555")}
	require.NoError(t, repo.CreateClient(ctx, client))
	rel, err := repo.UpsertRelationship(ctx, master.ID, client.ID)
	require.NoError(t, err)

	rels, err := repo.GetUnsyncedRelationships(ctx)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	require.NotNil(t, rels[0].Master)
	require.NotNil(t, rels[0].Client)
	assert.Equal(t, "Мастер", rels[0].Master.Name)
	assert.Equal(t, "Клиент", rels[0].Client.Name)

	require.NoError(t, repo.UpdateSheetIsSynced(ctx, rel.ID, true))
	rels, err = repo.GetUnsyncedRelationships(ctx)
	require.NoError(t, err)
	assert.Empty(t, rels)
}
