package domain

// ReferralNode is one consumed invite edge in the referral tree.
type ReferralNode struct {
	InviteID string
	Code     string
	UserID   string

	// Cycle marks a user who is already an ancestor on this path. The node
	// is kept so the edge is visible but its children are not expanded again.
	Cycle bool

	Children []ReferralNode
}

// ReferralTree is rooted at the user whose invitations are being traced.
type ReferralTree struct {
	UserID  string
	Invited []ReferralNode
}

// Size counts every node below the root.
func (t ReferralTree) Size() int {
	n := 0
	stack := append([]ReferralNode(nil), t.Invited...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.Children...)
	}
	return n
}

// BuildReferralTree arranges consumed invites into the tree below
// rootUserID. consumed must be ordered by consumption time then invite id;
// each child list keeps that order.
//
// The walk uses an explicit stack so depth is bounded only by the data. A
// user reached again through a different branch is expanded again; only a
// user who is its own ancestor is cut off as a Cycle leaf.
func BuildReferralTree(rootUserID string, consumed []Invite) ReferralTree {
	adjacency := make(map[string][]Invite)
	for _, inv := range consumed {
		adjacency[inv.InviterID] = append(adjacency[inv.InviterID], inv)
	}

	tree := ReferralTree{UserID: rootUserID}

	type frame struct {
		userID string
		dst    *[]ReferralNode
		exit   bool
	}
	onPath := make(map[string]bool)
	stack := []frame{{userID: rootUserID, dst: &tree.Invited}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exit {
			delete(onPath, f.userID)
			continue
		}

		onPath[f.userID] = true
		stack = append(stack, frame{userID: f.userID, exit: true})

		edges := adjacency[f.userID]
		if len(edges) == 0 {
			continue
		}

		// Sized once and never appended to, so the child pointers pushed
		// below stay valid.
		nodes := make([]ReferralNode, len(edges))
		for i, inv := range edges {
			nodes[i] = ReferralNode{
				InviteID: inv.ID,
				Code:     inv.Code,
				UserID:   inv.ConsumedBy,
				Cycle:    onPath[inv.ConsumedBy],
			}
		}
		*f.dst = nodes

		for i := range nodes {
			if nodes[i].Cycle {
				continue
			}
			stack = append(stack, frame{userID: nodes[i].UserID, dst: &nodes[i].Children})
		}
	}

	return tree
}
