package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"shareit/pkg/apperr"
	"shareit/pkg/dto"
	"shareit/pkg/models"
	"shareit/pkg/repository"
)

type UserService struct{ base }

func (s *UserService) Create(ctx context.Context, in dto.UserCreate) (dto.UserDto, error) {
	u := models.User{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
	if err := s.repo().CreateUser(ctx, &u); err != nil {
		return dto.UserDto{}, emailConflict(err, u.Email)
	}
	s.logger(ctx).Info().Int64("user_id", u.ID).Msg("user created")
	return dto.ToUserDto(u), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (dto.UserDto, error) {
	u, err := s.repo().FindUserByID(ctx, id)
	if err != nil {
		return dto.UserDto{}, notFoundOr(err, "User with id %d not found", id)
	}
	return dto.ToUserDto(*u), nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserDto, error) {
	users, err := s.repo().ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ToUserDtos(users), nil
}

// Update overwrites only the fields supplied with a non-blank value.
func (s *UserService) Update(ctx context.Context, id int64, patch dto.UserPatch) (dto.UserDto, error) {
	var out models.User
	err := s.inTx(ctx, func(r *repository.Repo) error {
		u, err := r.FindUserByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "User with id %d not found", id)
		}
		if name, ok := patch.Name.Get(); ok && strings.TrimSpace(name) != "" {
			u.Name = strings.TrimSpace(name)
		}
		if email, ok := patch.Email.Get(); ok && strings.TrimSpace(email) != "" {
			email = strings.TrimSpace(email)
			if !dto.IsEmail(email) {
				return apperr.Fields(map[string]string{"email": "must be a well-formed email address"})
			}
			u.Email = email
		}
		if err := r.UpdateUser(ctx, u); err != nil {
			return emailConflict(err, u.Email)
		}
		out = *u
		return nil
	})
	if err != nil {
		return dto.UserDto{}, err
	}
	s.logger(ctx).Info().Int64("user_id", id).Msg("user updated")
	return dto.ToUserDto(out), nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo().DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("User with id %d not found", id)
	}
	s.logger(ctx).Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func emailConflict(err error, email string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("User with email %s already exists", email).Wrap(err)
	}
	return err
}
