package library

import (
	"context"
	"testing"

	"github.com/five82/shelf/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemovalRollbackRestoresIndex(t *testing.T) {
	books := []catalog.Book{book(1, "A"), book(2, "B"), book(3, "C")}

	next, rm, err := beginRemoval(books, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids(next))
	assert.Equal(t, 1, rm.index)
	assert.Equal(t, removalPending, rm.state)

	restored, err := rm.rollback(next)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Book{book(1, "A"), book(2, "B"), book(3, "C")}, restored)
	assert.Equal(t, removalRolledBack, rm.state)
}

func TestRemovalCommitIsFinal(t *testing.T) {
	next, rm, err := beginRemoval([]catalog.Book{book(1, "A")}, 1)
	require.NoError(t, err)
	assert.Empty(t, next)

	require.NoError(t, rm.commit())
	assert.Equal(t, removalCommitted, rm.state)
	assert.Error(t, rm.commit())

	_, err = rm.rollback(next)
	assert.Error(t, err)
}

func TestRemovalRollbackClampsAndSkipsDuplicates(t *testing.T) {
	_, rm, err := beginRemoval([]catalog.Book{book(1, "A"), book(2, "B"), book(3, "C")}, 3)
	require.NoError(t, err)

	restored, err := rm.rollback(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids(restored))

	_, rm, err = beginRemoval([]catalog.Book{book(1, "A"), book(2, "B")}, 1)
	require.NoError(t, err)
	restored, err = rm.rollback([]catalog.Book{book(1, "A"), book(2, "B")})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(restored))
}

func TestBeginRemovalUnknownID(t *testing.T) {
	books := []catalog.Book{book(1, "A")}
	next, rm, err := beginRemoval(books, 5)
	assert.ErrorIs(t, err, ErrNotInCatalog)
	assert.Nil(t, rm)
	assert.Equal(t, books, next)
}

func TestQueueDrainsInOrderAndRejectsAfterClose(t *testing.T) {
	q := newQueue()
	var order []int
	for i := range 3 {
		require.True(t, q.push(command{run: func(context.Context) { order = append(order, i) }}))
	}
	for _, c := range q.drain() {
		c.run(context.Background())
	}
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Empty(t, q.drain())

	require.True(t, q.push(command{}))
	assert.Len(t, q.close(), 1)
	assert.False(t, q.push(command{}))
}
