package usecase

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/identity"
	"github.com/jhoicas/Facturacion-api/internal/application/ownership"
	"github.com/jhoicas/Facturacion-api/internal/application/pipeline"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// UserUseCase datos del usuario autenticado.
type UserUseCase struct {
	deps Deps
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(deps Deps) *UserUseCase {
	return &UserUseCase{deps: deps.WithDefaults()}
}

// Me devuelve el usuario del token. Un token válido de un usuario borrado da ErrUserNotFound.
func (uc *UserUseCase) Me(ctx context.Context) (*dto.UserResponse, error) {
	return pipeline.Send(ctx, uc.deps.Pipeline, struct{}{}, uc.me)
}

func (uc *UserUseCase) me(ctx context.Context, caller identity.Caller, _ struct{}) (*dto.UserResponse, error) {
	return InTx(ctx, uc.deps.Tx, func(s repository.Store) (*dto.UserResponse, error) {
		user, err := ownership.ResolveUser(ctx, s, caller.UserID)
		if err != nil {
			return nil, err
		}
		return entityToUserResponse(user), nil
	})
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
