package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtorres/slate/internal/model"
)

func openTestGateway(t *testing.T) *SQLiteGateway {
	t.Helper()
	g, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestSQLiteRoundTrip(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	item := model.NewItem("Launch teaser", "15s cut", model.PlatformShortVideo,
		time.Now().Add(72*time.Hour).UTC(), []string{"launch", "teaser"})
	require.NoError(t, g.CreateItem(ctx, "user-1", item))

	byStage, err := g.ListItemsForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, byStage[model.StageIdea], 1)

	got := byStage[model.StageIdea][0]
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Title, got.Title)
	assert.Equal(t, item.Platform, got.Platform)
	assert.Equal(t, item.Tags, got.Tags)
}

func TestSQLiteUpdateStatus(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	item := model.NewItem("x", "", model.PlatformPhoto, time.Time{}, nil)
	require.NoError(t, g.CreateItem(ctx, "user-1", item))

	require.NoError(t, g.UpdateStatus(ctx, item.ID, model.StageFilming))

	byStage, err := g.ListItemsForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, byStage[model.StageIdea])
	require.Len(t, byStage[model.StageFilming], 1)
	assert.Equal(t, model.StageFilming, byStage[model.StageFilming][0].Stage)
}

func TestSQLiteMissingID(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	assert.ErrorIs(t, g.UpdateStatus(ctx, "nope", model.StageFilming), ErrNotFound)
	assert.ErrorIs(t, g.DeleteItem(ctx, "nope"), ErrNotFound)
	assert.ErrorIs(t, g.UpdateItem(ctx, model.ContentItem{ID: "nope", Title: "t", Platform: model.PlatformOther, Stage: model.StageIdea}), ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	item := model.NewItem("x", "", model.PlatformOther, time.Time{}, nil)
	require.NoError(t, g.CreateItem(ctx, "user-1", item))
	require.NoError(t, g.DeleteItem(ctx, item.ID))

	byStage, err := g.ListItemsForUser(ctx, "user-1")
	require.NoError(t, err)
	for _, stage := range model.Stages() {
		assert.Empty(t, byStage[stage])
	}
}

func TestSQLiteScopesUsers(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	mine := model.NewItem("mine", "", model.PlatformOther, time.Time{}, nil)
	theirs := model.NewItem("theirs", "", model.PlatformOther, time.Time{}, nil)
	require.NoError(t, g.CreateItem(ctx, "user-1", mine))
	require.NoError(t, g.CreateItem(ctx, "user-2", theirs))

	byStage, err := g.ListItemsForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, byStage[model.StageIdea], 1)
	assert.Equal(t, mine.ID, byStage[model.StageIdea][0].ID)
}

func TestSQLiteListOrderIsCreation(t *testing.T) {
	g := openTestGateway(t)
	ctx := context.Background()

	first := model.NewItem("first", "", model.PlatformOther, time.Time{}, nil)
	second := model.NewItem("second", "", model.PlatformOther, time.Time{}, nil)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.UpdatedAt = second.CreatedAt
	require.NoError(t, g.CreateItem(ctx, "u", first))
	require.NoError(t, g.CreateItem(ctx, "u", second))

	byStage, err := g.ListItemsForUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, byStage[model.StageIdea], 2)
	assert.Equal(t, first.ID, byStage[model.StageIdea][0].ID)
	assert.Equal(t, second.ID, byStage[model.StageIdea][1].ID)
}
