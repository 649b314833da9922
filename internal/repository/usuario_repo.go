package repository

import (
	"context"

	"tresetapas/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	SetActivo(ctx context.Context, id uuid.UUID, activo bool) error
	// ReemplazarPermisos swaps the full permission set of a user.
	ReemplazarPermisos(ctx context.Context, u *model.Usuario, permisos []string) error
	// AsegurarPermisos inserts the permission catalog if missing.
	AsegurarPermisos(ctx context.Context, nombres []string) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Permisos").
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).Preload("Permisos").First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx).Preload("Permisos").Order("nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Permisos").Save(u).Error
}

func (r *usuarioRepo) SetActivo(ctx context.Context, id uuid.UUID, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *usuarioRepo) ReemplazarPermisos(ctx context.Context, u *model.Usuario, permisos []string) error {
	nuevos := make([]model.Permiso, len(permisos))
	for i, p := range permisos {
		nuevos[i] = model.Permiso{Nombre: p}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(u).Association("Permisos").Replace(nuevos)
	})
	if err != nil {
		return err
	}
	u.Permisos = nuevos
	return nil
}

func (r *usuarioRepo) AsegurarPermisos(ctx context.Context, nombres []string) error {
	for _, n := range nombres {
		p := model.Permiso{Nombre: n}
		if err := r.db.WithContext(ctx).FirstOrCreate(&p, model.Permiso{Nombre: n}).Error; err != nil {
			return err
		}
	}
	return nil
}
