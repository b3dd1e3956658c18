package postgres

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chat-relay-server/internal/domain"
)

// GroupRepository handles database operations for group chats.
type GroupRepository struct {
	DB *sql.DB
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// Create inserts a new group into the database.
func (r *GroupRepository) Create(group *domain.Group) error {
	query := `INSERT INTO groups (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.Exec(query, group.ID, group.Name, group.OwnerID, group.CreatedAt)
	return err
}

// GetByID retrieves a group by its id.
func (r *GroupRepository) GetByID(id uuid.UUID) (*domain.Group, error) {
	group := &domain.Group{}
	query := `SELECT id, name, owner_id, created_at FROM groups WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return group, nil
}

// AddMember adds a user to a group's membership list.
func (r *GroupRepository) AddMember(groupID, userID uuid.UUID) error {
	query := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT (group_id, user_id) DO NOTHING`
	_, err := r.DB.Exec(query, groupID, userID)
	return err
}

// RemoveMember removes a user from a group's membership list.
func (r *GroupRepository) RemoveMember(groupID, userID uuid.UUID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.DB.Exec(query, groupID, userID)
	return err
}

// IsMember checks if a user is a member of a specific group.
func (r *GroupRepository) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`
	err := r.DB.QueryRow(query, groupID, userID).Scan(&exists)
	return exists, err
}

// Members retrieves a list of usernames for users in a group.
func (r *GroupRepository) Members(groupID uuid.UUID) ([]string, error) {
	query := `
		SELECT u.username
		FROM users u
		JOIN group_members gm ON u.id = gm.user_id
		WHERE gm.group_id = $1
	`
	rows, err := r.DB.Query(query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		members = append(members, username)
	}
	return members, rows.Err()
}
