package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreadPath(t *testing.T) {
	path, err := ParseThreadPath("1.7.42")
	require.NoError(t, err)
	assert.Equal(t, ThreadPath{1, 7, 42}, path)
	assert.Equal(t, "1.7.42", path.String())

	_, err = ParseThreadPath("")
	assert.Error(t, err)

	_, err = ParseThreadPath("1..2")
	assert.Error(t, err)

	_, err = ParseThreadPath("1.abc")
	assert.Error(t, err)
}

func TestThreadPathLevelsAndDepth(t *testing.T) {
	root := ThreadPath{5}
	assert.Equal(t, 1, root.Levels())
	assert.EqualValues(t, 5, root.Leaf())
	assert.Nil(t, root.Parent())
	assert.Equal(t, "", root.ParentPrefix())

	child := root.Child(9)
	assert.Equal(t, ThreadPath{5, 9}, child)
	assert.Equal(t, 2, child.Levels())
	assert.Equal(t, "5", child.ParentPrefix())

	comment := Comment{Path: child}
	assert.Equal(t, 1, comment.Depth())
}

func TestThreadPathContains(t *testing.T) {
	parent := ThreadPath{1, 2}

	assert.True(t, parent.Contains(ThreadPath{1, 2, 3}))
	assert.True(t, parent.Contains(ThreadPath{1, 2, 3, 4}))

	// a path never contains itself
	assert.False(t, parent.Contains(ThreadPath{1, 2}))

	assert.False(t, parent.Contains(ThreadPath{1}))
	assert.False(t, parent.Contains(ThreadPath{1, 3, 2}))
	assert.False(t, parent.Contains(ThreadPath{2, 2, 3}))
}

func TestChildDoesNotAliasParent(t *testing.T) {
	parent := ThreadPath{1, 2}
	a := parent.Child(3)
	b := parent.Child(4)
	assert.Equal(t, ThreadPath{1, 2, 3}, a)
	assert.Equal(t, ThreadPath{1, 2, 4}, b)
}
