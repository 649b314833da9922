package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"tresetapas/internal/infra"
	"tresetapas/internal/model"
	"tresetapas/internal/repository"
	"tresetapas/internal/worker"

	"github.com/spf13/cobra"
)

var rotacionCmd = &cobra.Command{
	Use:   "rotacion",
	Short: "Print the low-stock and rotation digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		dias, _ := cmd.Flags().GetInt("dias")
		cfg, db, err := bootDB()
		if err != nil {
			return err
		}
		if dias <= 0 {
			dias = cfg.RotacionDias
		}
		body, _, err := worker.ConstruirReporte(context.Background(),
			repository.NewProductoRepository(db), repository.NewPedidoRepository(db), dias, time.Now())
		if err != nil {
			return err
		}
		fmt.Print(body)
		return nil
	},
}

var exportarCmd = &cobra.Command{
	Use:   "exportar",
	Short: "Export orders to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		estado, _ := cmd.Flags().GetString("estado")
		out, _ := cmd.Flags().GetString("out")
		if estado != "" && model.OrdenEstado(estado) < 0 {
			return fmt.Errorf("estado desconocido: %s", estado)
		}

		_, db, err := bootDB()
		if err != nil {
			return err
		}
		pedidos, err := repository.NewPedidoRepository(db).List(context.Background(), repository.PedidoQuery{
			Estado:       estado,
			ConProductos: true,
		})
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := infra.ExportarPedidosXLSX(f, pedidos, estado); err != nil {
			return err
		}
		fmt.Printf("✅ %d pedidos exportados a %s\n", len(pedidos), out)
		return nil
	},
}

func init() {
	rotacionCmd.Flags().Int("dias", 0, "window in days (default ROTATION_DAYS)")
	exportarCmd.Flags().String("estado", "", "only orders in this status")
	exportarCmd.Flags().String("out", "pedidos.xlsx", "output file")
}
