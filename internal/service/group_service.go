package service

import (
	"errors"

	"github.com/google/uuid"

	"chat-relay-server/internal/domain"
)

// ErrGroupNotFound is returned when a group id resolves to nothing.
var ErrGroupNotFound = errors.New("group not found")

// GroupService provides group membership logic.
type GroupService struct {
	groups IGroupRepository
	users  IUserRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(groups IGroupRepository, users IUserRepository) *GroupService {
	return &GroupService{groups: groups, users: users}
}

// Create creates a group and adds the owner as its first member.
func (s *GroupService) Create(name, ownerUsername string) (*domain.Group, error) {
	if name == "" {
		return nil, errors.New("group name is required")
	}
	owner, err := s.users.GetByUsername(ownerUsername)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errors.New("owner not found")
	}

	group := domain.NewGroup(name, owner.ID)
	if err := s.groups.Create(group); err != nil {
		return nil, err
	}
	if err := s.groups.AddMember(group.ID, owner.ID); err != nil {
		return nil, err
	}
	return group, nil
}

// Get retrieves a group by id.
func (s *GroupService) Get(groupID uuid.UUID) (*domain.Group, error) {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// AddMember adds a user to a group.
func (s *GroupService) AddMember(groupID uuid.UUID, username string) error {
	user, err := s.resolve(groupID, username)
	if err != nil {
		return err
	}
	return s.groups.AddMember(groupID, user.ID)
}

// RemoveMember removes a user from a group.
func (s *GroupService) RemoveMember(groupID uuid.UUID, username string) error {
	user, err := s.resolve(groupID, username)
	if err != nil {
		return err
	}
	return s.groups.RemoveMember(groupID, user.ID)
}

// Members lists the usernames of a group's members.
func (s *GroupService) Members(groupID uuid.UUID) ([]string, error) {
	if _, err := s.Get(groupID); err != nil {
		return nil, err
	}
	return s.groups.Members(groupID)
}

// IsMember checks whether a user belongs to a group. Returns
// ErrGroupNotFound when the group does not exist.
func (s *GroupService) IsMember(groupID uuid.UUID, username string) (bool, error) {
	if _, err := s.Get(groupID); err != nil {
		return false, err
	}
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.groups.IsMember(groupID, user.ID)
}

func (s *GroupService) resolve(groupID uuid.UUID, username string) (*domain.User, error) {
	if _, err := s.Get(groupID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
