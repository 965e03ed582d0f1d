package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/charitymap/charitymap/internal/domain"
	internal_errors "github.com/charitymap/charitymap/internal/errors"
)

const uniqueViolation = "23505"

const (
	queryInsertUser   = "INSERT INTO users (email, password_hash, organization_name, is_admin) VALUES ($1, $2, $3, $4) RETURNING id"
	queryUserByEmail  = "SELECT id, email, password_hash, organization_name, is_admin, created_at FROM users WHERE email = $1"
	queryUserById     = "SELECT id, email, password_hash, organization_name, is_admin, created_at FROM users WHERE id = $1"
	queryConsume      = "UPDATE invite_tokens SET used = TRUE WHERE token = $1 AND used = FALSE"
	queryInsertInvite = "INSERT INTO invite_tokens (token, email) VALUES ($1, $2)"
	queryInvite       = "SELECT token, email, used, created_at FROM invite_tokens WHERE token = $1 AND used = FALSE"
	queryInviteByMail = "SELECT token, email, used, created_at FROM invite_tokens WHERE email = $1 AND used = FALSE"
)

// =========================================================================
// Public methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser inserts a user directly. Used by the startup seed; regular
// registration goes through CreateUserWithInvite.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	return s.saveUser(s.db, user)
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(queryUserByEmail, email))
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(queryUserById, id))
}

// CreateUserWithInvite consumes the invite and inserts the user in a
// single transaction, so a crash or a concurrent registration can never
// leave an invite consumed without its user or vice versa.
func (s *Storage) CreateUserWithInvite(user domain.User, inviteToken string) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(queryConsume, inviteToken)
		if err != nil {
			return fmt.Errorf("failed to consume invite: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check consumed invite: %w", err)
		}
		if rows == 0 {
			return internal_errors.BadRequest("Invalid or expired invite token")
		}

		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

func (s *Storage) SaveInvite(invite domain.InviteToken) error {
	if _, err := s.db.Exec(queryInsertInvite, invite.Token, invite.Email); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return internal_errors.Conflict("An unused invite already exists for this email")
		}
		return fmt.Errorf("failed to insert invite: %w", err)
	}
	return nil
}

// UnusedInvite fetches an invite by token, ignoring consumed ones.
func (s *Storage) UnusedInvite(token string) (domain.InviteToken, error) {
	return s.scanInvite(s.db.QueryRow(queryInvite, token))
}

// UnusedInviteByEmail fetches the pending invite for an email, if any.
func (s *Storage) UnusedInviteByEmail(email domain.Email) (domain.InviteToken, error) {
	return s.scanInvite(s.db.QueryRow(queryInviteByMail, email))
}

// =========================================================================
// Internal methods
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := q.QueryRow(queryInsertUser, user.Email, user.PassHash, user.OrganizationName, user.Admin).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return -1, internal_errors.Conflict("Email already registered")
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Email, &user.PassHash, &user.OrganizationName, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) scanInvite(row *sql.Row) (domain.InviteToken, error) {
	var invite domain.InviteToken
	err := row.Scan(&invite.Token, &invite.Email, &invite.Used, &invite.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InviteToken{}, internal_errors.NotFound("Invite not found")
		}
		return domain.InviteToken{}, fmt.Errorf("failed to query invite: %w", err)
	}
	return invite, nil
}
