// Package service provides the business logic of the annotation backend. It
// orchestrates repositories and enforces collection permissions on every
// write, independently of what the client chose to display.
package service

import (
	"context"
	"fmt"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/repository"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// PermissionService resolves what a user may do in a collection.
type PermissionService struct {
	users       repository.UserRepository
	collections repository.CollectionRepository
	rootName    string
}

// NewPermissionService creates a new PermissionService.
//
// Parameters:
//   - users: Repository the viewer's role is read from
//   - collections: Repository holding collections and role grants
//   - rootName: Display name of the root collection
func NewPermissionService(users repository.UserRepository, collections repository.CollectionRepository, rootName string) *PermissionService {
	if rootName == "" {
		rootName = constants.DefaultRootCollectionName
	}
	return &PermissionService{
		users:       users,
		collections: collections,
		rootName:    rootName,
	}
}

// CurrentUser loads the authenticated user. The role always comes from the
// database, never from the token. An unknown user is unauthorized.
func (s *PermissionService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewUnauthorizedError("")
		}
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}

// Collection returns a collection as seen by user, with CanWrite filled in.
// A nil id is the root collection. Collections the user cannot read are
// reported as forbidden.
func (s *PermissionService) Collection(ctx context.Context, user *models.User, collectionID *int64) (*models.Collection, error) {
	collection, err := s.loadCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	level, err := s.levelFor(ctx, user, collection)
	if err != nil {
		return nil, err
	}
	if level == constants.AccessNone {
		return nil, utils.NewForbiddenError("")
	}

	collection.CanWrite = level == constants.AccessWrite
	return collection, nil
}

// AccessLevel returns write, read or none for user on a collection.
func (s *PermissionService) AccessLevel(ctx context.Context, user *models.User, collectionID *int64) (string, error) {
	collection, err := s.loadCollection(ctx, collectionID)
	if err != nil {
		return constants.AccessNone, err
	}
	return s.levelFor(ctx, user, collection)
}

// CanWrite reports whether user may curate the collection.
func (s *PermissionService) CanWrite(ctx context.Context, user *models.User, collectionID *int64) (bool, error) {
	level, err := s.AccessLevel(ctx, user, collectionID)
	if err != nil {
		return false, err
	}
	return level == constants.AccessWrite, nil
}

// RequireWrite fails with a forbidden error unless user may curate the collection.
func (s *PermissionService) RequireWrite(ctx context.Context, user *models.User, collectionID *int64) error {
	ok, err := s.CanWrite(ctx, user, collectionID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewForbiddenError(constants.MsgCollectionWriteDenied)
	}
	return nil
}

// RequireRead fails with a forbidden error when user cannot see the collection.
func (s *PermissionService) RequireRead(ctx context.Context, user *models.User, collectionID *int64) error {
	level, err := s.AccessLevel(ctx, user, collectionID)
	if err != nil {
		return err
	}
	if level == constants.AccessNone {
		return utils.NewForbiddenError("")
	}
	return nil
}

func (s *PermissionService) loadCollection(ctx context.Context, collectionID *int64) (*models.Collection, error) {
	if collectionID == nil {
		return models.RootCollection(s.rootName), nil
	}
	collection, err := s.collections.GetByID(ctx, *collectionID)
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// levelFor applies the rules in order: admins write everywhere, personal
// collections belong to their owner alone, everything else follows the
// role's grant, defaulting to none.
func (s *PermissionService) levelFor(ctx context.Context, user *models.User, collection *models.Collection) (string, error) {
	if user.IsAdmin() {
		return constants.AccessWrite, nil
	}

	if collection.IsPersonal() {
		if *collection.PersonalOwnerID == user.ID {
			return constants.AccessWrite, nil
		}
		return constants.AccessNone, nil
	}

	level, err := s.collections.GetAccessLevel(ctx, user.Role, collection.ID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return constants.AccessNone, nil
		}
		return constants.AccessNone, fmt.Errorf("failed to resolve collection access: %w", err)
	}

	switch level {
	case constants.AccessWrite, constants.AccessRead:
		return level, nil
	default:
		return constants.AccessNone, nil
	}
}

// ViewCollection loads the current user and returns the collection as they
// see it.
func (s *PermissionService) ViewCollection(ctx context.Context, userID int64, collectionID *int64) (*models.Collection, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Collection(ctx, user, collectionID)
}
