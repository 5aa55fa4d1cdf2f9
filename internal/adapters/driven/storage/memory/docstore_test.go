package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
)

func TestDocStore_SaveAndGetDocument(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	id, err := store.SaveDocument(ctx, &domain.Document{
		OwnerID:      1,
		Title:        "Guide",
		DocumentType: "markdown",
		Status:       domain.DocumentStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Guide", doc.Title)
	assert.False(t, doc.CreatedAt.IsZero())

	_, err = store.GetDocument(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocStore_UpdateDocumentStatus(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	id, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 1, Title: "Doc"})
	require.NoError(t, err)

	err = store.UpdateDocumentStatus(ctx, id, domain.DocumentStatusReady, 4)
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusReady, doc.Status)
	assert.Equal(t, 4, doc.ChunkCount)

	err = store.UpdateDocumentStatus(ctx, 999, domain.DocumentStatusReady, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocStore_FetchChunks(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	docA, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 1, Title: "A"})
	require.NoError(t, err)
	docB, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 2, Title: "B"})
	require.NoError(t, err)

	require.NoError(t, store.SaveChunks(ctx, docA, []domain.Chunk{
		{DocumentID: docA, ChunkIndex: 0, Content: "a0"},
		{DocumentID: docA, ChunkIndex: 1, Content: "a1"},
	}))
	require.NoError(t, store.SaveChunks(ctx, docB, []domain.Chunk{
		{DocumentID: docB, ChunkIndex: 0, Content: "b0"},
	}))

	t.Run("unscoped returns all ordered", func(t *testing.T) {
		chunks, err := store.FetchChunks(ctx, driven.ChunkFilter{})
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		assert.Equal(t, "a0", chunks[0].Content)
		assert.Equal(t, "a1", chunks[1].Content)
		assert.Equal(t, "b0", chunks[2].Content)
	})

	t.Run("document scope", func(t *testing.T) {
		chunks, err := store.FetchChunks(ctx, driven.ChunkFilter{DocumentID: docB})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "b0", chunks[0].Content)
	})

	t.Run("user scope", func(t *testing.T) {
		chunks, err := store.FetchChunks(ctx, driven.ChunkFilter{UserID: 1})
		require.NoError(t, err)
		require.Len(t, chunks, 2)
	})
}

func TestDocStore_SaveChunksReplacesExisting(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	id, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 1, Title: "Doc"})
	require.NoError(t, err)

	require.NoError(t, store.SaveChunks(ctx, id, []domain.Chunk{
		{DocumentID: id, ChunkIndex: 0, Content: "old"},
		{DocumentID: id, ChunkIndex: 1, Content: "old too"},
	}))
	require.NoError(t, store.SaveChunks(ctx, id, []domain.Chunk{
		{DocumentID: id, ChunkIndex: 0, Content: "new"},
	}))

	chunks, err := store.FetchChunks(ctx, driven.ChunkFilter{DocumentID: id})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new", chunks[0].Content)
}

func TestDocStore_ListDocuments(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	for _, d := range []domain.Document{
		{OwnerID: 1, Title: "first"},
		{OwnerID: 1, Title: "second"},
		{OwnerID: 2, Title: "other"},
	} {
		doc := d
		_, err := store.SaveDocument(ctx, &doc)
		require.NoError(t, err)
	}

	docs, err := store.ListDocuments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	all, err := store.ListDocuments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDocStore_DeleteDocument(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	id, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 1, Title: "Doc"})
	require.NoError(t, err)
	require.NoError(t, store.SaveChunks(ctx, id, []domain.Chunk{
		{DocumentID: id, ChunkIndex: 0, Content: "c"},
	}))

	require.NoError(t, store.DeleteDocument(ctx, id))

	_, err = store.GetDocument(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.FetchChunks(ctx, driven.ChunkFilter{DocumentID: id})
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.ErrorIs(t, store.DeleteDocument(ctx, id), domain.ErrNotFound)
}

func TestDocStore_DocumentTitles(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	id, err := store.SaveDocument(ctx, &domain.Document{OwnerID: 1, Title: "Guide", DocumentType: "markdown"})
	require.NoError(t, err)

	metas, err := store.DocumentTitles(ctx, []int64{id, 999})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "Guide", metas[id].Title)
	assert.Equal(t, "markdown", metas[id].DocumentType)
}

func TestDocStore_Conversations(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	conv := &domain.Conversation{ID: "conv-1", UserID: 1, Title: "chat"}
	require.NoError(t, store.SaveConversation(ctx, conv))

	conv.Title = "renamed"
	require.NoError(t, store.SaveConversation(ctx, conv))

	got, err := store.GetConversation(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	_, err = store.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocStore_Messages(t *testing.T) {
	store := NewDocStore()
	ctx := context.Background()

	require.NoError(t, store.SaveConversation(ctx, &domain.Conversation{ID: "conv-1", UserID: 1}))
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{
		ID: "m1", ConversationID: "conv-1", Role: domain.RoleUser, Content: "hello",
	}))
	require.NoError(t, store.SaveMessage(ctx, &domain.Message{
		ID: "m2", ConversationID: "conv-1", Role: domain.RoleAssistant, Content: "hi",
		Citations: []domain.Citation{{DocumentID: 1, ChunkIndex: 0, Snippet: "hello"}},
	}))

	msgs, err := store.ListMessages(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	require.Len(t, msgs[1].Citations, 1)

	empty, err := store.ListMessages(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
