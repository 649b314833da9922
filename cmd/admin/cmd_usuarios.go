package main

import (
	"context"
	"errors"
	"fmt"

	"tresetapas/internal/dto"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/spf13/cobra"
)

var crearAdminCmd = &cobra.Command{
	Use:   "crear-admin",
	Short: "Create an administrator with every permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		nombre, _ := cmd.Flags().GetString("nombre")
		password, _ := cmd.Flags().GetString("password")

		cfg, db, err := bootDB()
		if err != nil {
			return err
		}
		ctx := context.Background()
		auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
		if err := auth.SembrarPermisos(ctx); err != nil {
			return err
		}

		u, err := auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
			Nombre:   nombre,
			Email:    email,
			Password: password,
			Rol:      model.RolAdmin,
			Permisos: model.PermisosDisponibles,
		})
		if errors.Is(err, service.ErrEmailDuplicado) {
			return fmt.Errorf("%s: %w", email, err)
		}
		if err != nil {
			return err
		}
		fmt.Printf("✅ Administrador %s creado (%s)\n", u.Email, u.ID)
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

func init() {
	crearAdminCmd.Flags().String("email", "admin@tresetapas.co", "login email")
	crearAdminCmd.Flags().String("nombre", "Administrador", "display name")
	crearAdminCmd.Flags().String("password", "", "initial password (min 8 chars)")
	_ = crearAdminCmd.MarkFlagRequired("password")
}
