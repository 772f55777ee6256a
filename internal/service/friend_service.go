package service

import (
	"context"

	"platefeed/internal/repository"
)

// FriendService manages the friendship graph.
type FriendService struct {
	userRepo   repository.UserRepository
	friendRepo repository.FriendRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(userRepo repository.UserRepository, friendRepo repository.FriendRepository) *FriendService {
	return &FriendService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
	}
}

// AddFriend links two users symmetrically. Both ids must exist; re-adding an
// existing friendship succeeds without creating a duplicate.
func (s *FriendService) AddFriend(ctx context.Context, userID, friendID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, friendID); err != nil {
		return err
	}
	return s.friendRepo.AddFriend(ctx, userID, friendID)
}

// FriendIDs returns the ids of the user's friends.
func (s *FriendService) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.friendRepo.FriendIDs(ctx, userID)
}
