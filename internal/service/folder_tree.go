package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/config"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/stream"
)

type folderTreeService struct {
	engine repositories.Engine
	logger *slog.Logger
}

// NewFolderTreeService creates a new folder tree service
func NewFolderTreeService(engine repositories.Engine, logger *slog.Logger) services.FolderTreeService {
	return &folderTreeService{engine: engine, logger: logger}
}

// CreateFolder creates a new folder
func (s *folderTreeService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folders := s.engine.Folders()

	if req.ParentID != nil {
		if _, err := folders.GetByID(ctx, *req.ParentID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	taken, err := folders.NameExists(ctx, req.Name, req.ParentID, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: folder %q already exists here", domain.ErrConflict, req.Name)
	}

	// New folders append after their siblings.
	siblings, err := s.siblingCount(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	folder := &models.Folder{
		Name:       req.Name,
		ParentID:   req.ParentID,
		Color:      req.Color,
		Icon:       req.Icon,
		SortOrder:  siblings,
		IsExpanded: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := folders.Insert(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)
	return folder, nil
}

func (s *folderTreeService) siblingCount(ctx context.Context, parentID *int64) (int, error) {
	if parentID != nil {
		return s.engine.Folders().CountChildren(ctx, *parentID)
	}
	roots, err := s.engine.Folders().ListRoots(ctx)
	if err != nil {
		return 0, err
	}
	return len(roots), nil
}

// GetFolder retrieves a folder
func (s *folderTreeService) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	return s.engine.Folders().GetByID(ctx, id)
}

// UpdateFolder renames or restyles a folder
func (s *folderTreeService) UpdateFolder(ctx context.Context, id int64, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folders := s.engine.Folders()
	folder, err := folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != folder.Name {
		taken, err := folders.NameExists(ctx, *req.Name, folder.ParentID, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: folder %q already exists here", domain.ErrConflict, *req.Name)
		}
		folder.Name = *req.Name
	}
	if req.Color != nil {
		folder.Color = req.Color
	}
	if req.Icon != nil {
		folder.Icon = req.Icon
	}
	folder.UpdatedAt = time.Now().UnixMilli()

	if err := folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// DeleteFolder deletes a folder and its whole subtree
func (s *folderTreeService) DeleteFolder(ctx context.Context, id int64) error {
	folder, err := s.engine.Folders().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.engine.Folders().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "name", folder.Name)
	return nil
}

// Move re-parents a folder, refusing cycles
func (s *folderTreeService) Move(ctx context.Context, id int64, newParentID *int64) error {
	folders := s.engine.Folders()

	folder, err := folders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if newParentID != nil {
		if _, err := folders.GetByID(ctx, *newParentID); err != nil {
			return fmt.Errorf("new parent folder: %w", err)
		}
		if *newParentID == id {
			return &domain.CycleError{FolderID: id, NewParentID: *newParentID}
		}

		all, err := folders.ListAll(ctx)
		if err != nil {
			return err
		}
		if descendants(all, id)[*newParentID] {
			return &domain.CycleError{FolderID: id, NewParentID: *newParentID}
		}
	}

	if err := folders.SetParent(ctx, id, newParentID, time.Now().UnixMilli()); err != nil {
		return err
	}

	s.logger.Info("folder moved",
		"id", id,
		"name", folder.Name,
		"new_parent_id", newParentID,
	)
	return nil
}

// descendants returns the id set of every folder below rootID.
func descendants(all []models.Folder, rootID int64) map[int64]bool {
	children := make(map[int64][]int64, len(all))
	for _, f := range all {
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.ID)
		}
	}

	closure := make(map[int64]bool)
	frontier := []int64{rootID}
	for len(frontier) > 0 {
		next := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, childID := range children[next] {
			if !closure[childID] {
				closure[childID] = true
				frontier = append(frontier, childID)
			}
		}
	}
	return closure
}

// BuildTree returns the nested folder hierarchy from one bulk fetch.
func (s *folderTreeService) BuildTree(ctx context.Context) ([]*models.Folder, error) {
	all, err := s.engine.Folders().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.engine.Notes().CountsByFolder(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Folder, len(all))
	for i := range all {
		f := all[i]
		f.NotesCount = counts[f.ID]
		f.Children = nil
		byID[f.ID] = &f
	}

	// all is already ordered by sort order then name, so children keep
	// that order when appended.
	var roots []*models.Folder
	for i := range all {
		node := byID[all[i].ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[*node.ParentID]
		if !ok {
			// Orphaned row, surface it at the root rather than hiding it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for _, root := range roots {
		setDepths(root, 0)
	}
	return roots, nil
}

func setDepths(f *models.Folder, depth int) {
	f.Depth = depth
	for _, child := range f.Children {
		setDepths(child, depth+1)
	}
}

// FlattenForDisplay linearizes the tree depth-first, descending only into
// expanded folders.
func (s *folderTreeService) FlattenForDisplay(ctx context.Context) ([]models.FolderTreeNode, error) {
	roots, err := s.BuildTree(ctx)
	if err != nil {
		return nil, err
	}

	var flat []models.FolderTreeNode
	var descend func(nodes []*models.Folder, depth int, parentIsLast []bool)
	descend = func(nodes []*models.Folder, depth int, parentIsLast []bool) {
		for i, node := range nodes {
			isLast := i == len(nodes)-1
			flat = append(flat, models.FolderTreeNode{
				Folder:       *node,
				Depth:        depth,
				IsLastChild:  isLast,
				ParentIsLast: append([]bool(nil), parentIsLast...),
			})
			if node.IsExpanded && len(node.Children) > 0 {
				descend(node.Children, depth+1, append(parentIsLast, isLast))
			}
		}
	}
	descend(roots, 0, nil)
	return flat, nil
}

// ToggleExpanded flips a folder's expansion state
func (s *folderTreeService) ToggleExpanded(ctx context.Context, id int64) error {
	folder, err := s.engine.Folders().GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.engine.Folders().SetExpanded(ctx, id, !folder.IsExpanded, time.Now().UnixMilli())
}

// SetSortOrder repositions a folder among its siblings
func (s *folderTreeService) SetSortOrder(ctx context.Context, id int64, sortOrder int) error {
	return s.engine.Folders().SetSortOrder(ctx, id, sortOrder, time.Now().UnixMilli())
}

// NameExists reports whether a sibling folder already uses the name
func (s *folderTreeService) NameExists(ctx context.Context, name string, parentID *int64, excludeID int64) (bool, error) {
	return s.engine.Folders().NameExists(ctx, name, parentID, excludeID)
}

// SearchFolders returns folders whose name contains the query
func (s *folderTreeService) SearchFolders(ctx context.Context, query string) ([]models.Folder, error) {
	return s.engine.Folders().Search(ctx, query)
}

// WatchTree republishes the nested tree on every engine change
func (s *folderTreeService) WatchTree(ctx context.Context) *stream.Stream[[]*models.Folder] {
	return watch(ctx, s.engine.Changes(), s.logger, s.BuildTree)
}

// WatchFlattened republishes the display list on every engine change
func (s *folderTreeService) WatchFlattened(ctx context.Context) *stream.Stream[[]models.FolderTreeNode] {
	return watch(ctx, s.engine.Changes(), s.logger, s.FlattenForDisplay)
}

func (s *folderTreeService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}

func (s *folderTreeService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.Color == nil && req.Icon == nil {
		return errors.New("at least one field must be provided")
	}
	if req.Name == nil {
		return nil
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
		),
	)
}
