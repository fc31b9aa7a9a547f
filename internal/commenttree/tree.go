// Package commenttree rebuilds threaded replies from a post's flat comment list.
package commenttree

import "github.com/anonto42/pulse/backend/internal/models"

// Build nests comments under their parents. Input order is kept for roots and
// for the children of each node, so callers pass comments sorted by creation
// time. A comment whose parent is not in the list becomes a root.
func Build(comments []models.Comment) []*models.CommentNode {
	nodes := make([]*models.CommentNode, len(comments))
	byID := make(map[string]*models.CommentNode, len(comments))
	for i := range comments {
		nodes[i] = &models.CommentNode{Comment: comments[i], Replies: []*models.CommentNode{}}
		byID[comments[i].ID] = nodes[i]
	}

	roots := []*models.CommentNode{}
	for _, n := range nodes {
		if n.IsReply() {
			if parent, ok := byID[*n.ParentID]; ok && parent != n {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
