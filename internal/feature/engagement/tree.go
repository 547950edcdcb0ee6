package engagement

import "techshare/internal/domain"

type CommentNode struct {
	domain.Comment
	LikesCount    int64          `json:"likes_count"`
	LikedByViewer bool           `json:"liked_by_viewer"`
	Replies       []*CommentNode `json:"replies"`
}

// BuildCommentTree 两趟组树：先建 id -> 节点索引，再按 parent_id 挂接。
// 父节点必然在索引里，任意深度一次遍历即可；父不在集合内的按根处理
func BuildCommentTree(comments []domain.Comment, likeCounts map[uint]int64, likedSet map[uint]bool) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		cm := comments[i]
		nodes[cm.ID] = &CommentNode{
			Comment:       cm,
			LikesCount:    likeCounts[cm.ID],
			LikedByViewer: likedSet[cm.ID],
			Replies:       []*CommentNode{},
		}
	}
	roots := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		n := nodes[comments[i].ID]
		if p := comments[i].ParentID; p != nil {
			if parent, ok := nodes[*p]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
