package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catimporter/backend/internal/apperr"
	"catimporter/backend/internal/models"
	"catimporter/backend/internal/testutil"
)

func TestTagNameIsUnique(t *testing.T) {
	st := New(testutil.TestDB(t))
	ctx := context.Background()

	require.NoError(t, st.CreateTag(ctx, &models.Tag{Name: "Calm", CreatedAt: time.Now()}))
	assert.Error(t, st.CreateTag(ctx, &models.Tag{Name: "Calm", CreatedAt: time.Now()}))
	assert.NoError(t, st.CreateTag(ctx, &models.Tag{Name: "calm", CreatedAt: time.Now()}))
}

func TestCatIDIsUnique(t *testing.T) {
	st := New(testutil.TestDB(t))
	ctx := context.Background()

	cat := func() *models.Cat {
		return &models.Cat{CatID: "abc", Width: 1, Height: 1, Image: "https://x.test/abc.jpg", CreatedAt: time.Now()}
	}
	require.NoError(t, st.CreateCat(ctx, cat()))
	assert.Error(t, st.CreateCat(ctx, cat()))
}

func TestFindTagByNameMissing(t *testing.T) {
	st := New(testutil.TestDB(t))

	tag, err := st.FindTagByName(context.Background(), "Nope")
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestTransactionRollsBack(t *testing.T) {
	st := New(testutil.TestDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.Transaction(ctx, func(tx *Store) error {
		if err := tx.CreateTag(ctx, &models.Tag{Name: "Calm", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tag, err := st.FindTagByName(ctx, "Calm")
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestCreateCatLinksExistingTags(t *testing.T) {
	st := New(testutil.TestDB(t))
	ctx := context.Background()

	calm := &models.Tag{Name: "Calm", CreatedAt: time.Now()}
	require.NoError(t, st.CreateTag(ctx, calm))
	require.NoError(t, st.CreateCat(ctx, &models.Cat{
		CatID: "abc", Width: 1, Height: 1, Image: "https://x.test/abc.jpg", CreatedAt: time.Now(),
		Tags: []*models.Tag{calm},
	}))

	cat, err := st.GetCat(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Calm"}, cat.TagNames())

	_, err = st.GetCat(ctx, "zzz")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
