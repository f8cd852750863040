package models

// Folder is one node of the folder hierarchy. ParentID nil means root.
// NotesCount, Children and Depth are derived by the tree engine; only the
// other fields are persisted.
type Folder struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	ParentID   *int64    `json:"parentId"`
	Color      *string   `json:"color"`
	Icon       *string   `json:"icon"`
	SortOrder  int       `json:"sortOrder"`
	IsExpanded bool      `json:"isExpanded"`
	NotesCount int       `json:"notesCount"`
	Children   []*Folder `json:"children,omitempty"`
	Depth      int       `json:"depth"`
	CreatedAt  int64     `json:"createdAt"` // epoch millis
	UpdatedAt  int64     `json:"updatedAt"` // epoch millis
}

func (f Folder) IsRoot() bool {
	return f.ParentID == nil
}

func (f Folder) HasChildren() bool {
	return len(f.Children) > 0
}

// FolderTreeNode is one row of the flattened, display-ordered folder tree.
// ParentIsLast records, for each ancestor, whether that ancestor was the
// last sibling at its level - enough for a renderer to draw tree-branch
// connectors without walking the tree again.
type FolderTreeNode struct {
	Folder       Folder
	Depth        int
	IsLastChild  bool
	ParentIsLast []bool
}
