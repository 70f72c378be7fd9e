package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ThreadPath is the materialized ancestor chain of a comment, oldest ancestor
// first and the comment's own id last. A top-level comment has a single
// segment. Subtree and depth queries become prefix and length checks instead
// of recursive joins.
type ThreadPath []int64

func ParseThreadPath(raw string) (ThreadPath, error) {
	if raw == "" {
		return nil, fmt.Errorf("thread path is empty")
	}
	segments := strings.Split(raw, ".")
	path := make(ThreadPath, len(segments))
	for i, segment := range segments {
		id, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("thread path segment %q is not an id: %w", segment, err)
		}
		path[i] = id
	}
	return path, nil
}

func (tp ThreadPath) String() string {
	segments := make([]string, len(tp))
	for i, id := range tp {
		segments[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(segments, ".")
}

// Levels is the node count of the path. A comment at depth d has d+1 levels.
func (tp ThreadPath) Levels() int {
	return len(tp)
}

func (tp ThreadPath) Leaf() int64 {
	return tp[len(tp)-1]
}

// Parent returns the path without its last segment. Nil for a top-level
// comment.
func (tp ThreadPath) Parent() ThreadPath {
	if len(tp) <= 1 {
		return nil
	}
	return tp[:len(tp)-1]
}

// ParentPrefix is the sortable form of Parent. Siblings share a prefix, so
// ordering by it groups each branch under its ancestor.
func (tp ThreadPath) ParentPrefix() string {
	return tp.Parent().String()
}

func (tp ThreadPath) Child(id int64) ThreadPath {
	child := make(ThreadPath, 0, len(tp)+1)
	child = append(child, tp...)
	return append(child, id)
}

// Contains reports whether other is a strict descendant of tp. A path does
// not contain itself.
func (tp ThreadPath) Contains(other ThreadPath) bool {
	if len(other) <= len(tp) {
		return false
	}
	for i, id := range tp {
		if other[i] != id {
			return false
		}
	}
	return true
}
