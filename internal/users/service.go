package users

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/afigueroa/mailprov-backend/internal/audit"
	pkgdb "github.com/afigueroa/mailprov-backend/pkg/db"
	"github.com/afigueroa/mailprov-backend/pkg/enums"
	pkgerrors "github.com/afigueroa/mailprov-backend/pkg/errors"
	"github.com/afigueroa/mailprov-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines profile and admin-facing user operations.
type Service interface {
	Profile(ctx context.Context, userID string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*UserDTO, error)
	List(ctx context.Context, params pagination.Params) (*UserList, error)
	AdminUpdate(ctx context.Context, userID string, input AdminUpdateInput) (*UserDTO, error)
}

// UpdateProfileInput carries the self-service editable fields.
type UpdateProfileInput struct {
	Name        *string
	CountryCode *string
}

// AdminUpdateInput carries the super_admin editable fields plus actor info.
// Email verification state is owned by the auth collaborator and cannot be
// set through this path.
type AdminUpdateInput struct {
	Name        *string
	Role        *enums.UserRole
	CountryCode *string
	ActorID     string
	ActorIP     *string
}

// UserList wraps a page of users with the total count.
type UserList struct {
	Users []UserDTO `json:"users"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type service struct {
	repo     *Repository
	tx       txRunner
	recorder *audit.Recorder
}

// NewService wires the users service dependencies.
func NewService(repo *Repository, tx txRunner, recorder *audit.Recorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if recorder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "audit recorder required")
	}
	return &service{repo: repo, tx: tx, recorder: recorder}, nil
}

func (s *service) Profile(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.CountryCode != nil {
		updates["country_code"] = strings.ToUpper(strings.TrimSpace(*input.CountryCode))
	}
	if len(updates) == 0 {
		return s.Profile(ctx, userID)
	}

	user, err := s.repo.Update(ctx, userID, updates)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "profile update conflicts with an existing user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*UserList, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	normalized := params.Normalize()
	list := &UserList{
		Users: make([]UserDTO, 0, len(rows)),
		Total: total,
		Page:  normalized.Page,
		Limit: normalized.Limit,
	}
	for i := range rows {
		list.Users = append(list.Users, *FromModel(&rows[i]))
	}
	return list, nil
}

func (s *service) AdminUpdate(ctx context.Context, userID string, input AdminUpdateInput) (*UserDTO, error) {
	if input.ActorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	var updated *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		updates := map[string]any{}
		diff := map[string]audit.FieldChange{}
		if input.Name != nil && *input.Name != current.Name {
			updates["name"] = *input.Name
			diff["name"] = audit.FieldChange{From: current.Name, To: *input.Name}
		}
		if input.Role != nil && *input.Role != current.Role {
			updates["role"] = *input.Role
			diff["role"] = audit.FieldChange{From: current.Role, To: *input.Role}
		}
		if input.CountryCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*input.CountryCode))
			if current.CountryCode == nil || code != *current.CountryCode {
				updates["country_code"] = code
				diff["country_code"] = audit.FieldChange{From: current.CountryCode, To: code}
			}
		}

		if len(updates) == 0 {
			updated = FromModel(current)
			return nil
		}

		user, err := repo.Update(ctx, userID, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}

		if err := s.recorder.Record(ctx, tx, audit.Entry{
			AdminID:    input.ActorID,
			TargetType: enums.TargetUser,
			TargetID:   userID,
			Detail:     audit.UserDiffDetails{Fields: diff},
			IPAddress:  input.ActorIP,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record user update")
		}

		updated = FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
