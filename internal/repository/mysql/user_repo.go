package mysql

import (
	"database/sql"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, avatar_url, bio, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, NOW(), NOW())`

	result, err := r.db.Exec(query, user.Username, user.Email, user.PasswordHash, user.AvatarURL, user.Bio)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("username", user.Username))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)

	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) FindByID(id int) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, avatar_url, bio, created_at, updated_at
              FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, avatar_url, bio, created_at, updated_at
              FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, avatar_url, bio, created_at, updated_at
              FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRow(query, username))
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, avatar_url = ?, bio = ?, updated_at = NOW()
              WHERE id = ?`
	_, err := r.db.Exec(query, user.Username, user.Email, user.AvatarURL, user.Bio, user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}
	return nil
}

func (r *userRepository) Delete(id int) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	var avatar, bio sql.NullString
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&avatar, &bio, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.AvatarURL = avatar.String
	user.Bio = bio.String
	return &user, nil
}
