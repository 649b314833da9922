package main

import (
	"context"
	"errors"
	"fmt"

	"tresetapas/internal/dto"
	"tresetapas/internal/repository"
	"tresetapas/internal/service"

	"github.com/spf13/cobra"
)

// Default catalog structure of the store.
var (
	categoriasBase = []dto.CrearCategoriaRequest{
		{Nombre: "Herramientas", Icono: "Wrench"},
		{Nombre: "Plomería", Icono: "Droplets"},
		{Nombre: "Electricidad", Icono: "Zap"},
		{Nombre: "Pintura", Icono: "PaintBucket"},
		{Nombre: "Materiales de Construcción", Icono: "Construction"},
		{Nombre: "Asesorías", Icono: "Handshake"},
	}
	ubicacionesBase = []string{
		"Pasillo 1", "Pasillo 3", "Pasillo 5", "Pasillo 7",
		"Departamento de Pintura", "Patio Exterior", "Almacén A",
	}
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create permissions, default categories and warehouse locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootDB()
		if err != nil {
			return err
		}
		ctx := context.Background()

		if err := service.NewAuthService(repository.NewUsuarioRepository(db), cfg).SembrarPermisos(ctx); err != nil {
			return fmt.Errorf("permisos: %w", err)
		}
		fmt.Println("✅ permisos")

		categorias := service.NewCategoriaService(repository.NewCategoriaRepository(db))
		for _, req := range categoriasBase {
			_, err := categorias.Crear(ctx, req)
			switch {
			case errors.Is(err, service.ErrCategoriaDuplicada):
				fmt.Printf("   categoria %q ya existe\n", req.Nombre)
			case err != nil:
				return fmt.Errorf("categoria %q: %w", req.Nombre, err)
			default:
				fmt.Printf("✅ categoria %q\n", req.Nombre)
			}
		}
		for _, nombre := range ubicacionesBase {
			_, err := categorias.CrearUbicacion(ctx, dto.UbicacionRequest{Nombre: nombre})
			switch {
			case errors.Is(err, service.ErrUbicacionDuplicada):
				fmt.Printf("   ubicacion %q ya existe\n", nombre)
			case err != nil:
				return fmt.Errorf("ubicacion %q: %w", nombre, err)
			default:
				fmt.Printf("✅ ubicacion %q\n", nombre)
			}
		}
		return nil
	},
}
