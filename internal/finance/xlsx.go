package finance

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Resumo"
	detailsSheet = "Detalhes"
)

// WriteXLSX выгружает отчёт в книгу Excel из двух листов: сводка и детализация.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	// стандартный лист не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := writeSummary(f, r, money); err != nil {
		return err
	}
	if err := writeDetails(f, r, header, money); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r Report, money int) error {
	s := r.Summary
	lines := []struct {
		label string
		value any
	}{
		{"Ano", r.Year},
		{"Receita total (negociada)", s.Revenue.InexactFloat64()},
		{"Atendimentos", s.Bookings},
		{"Receita estimada dos itens", s.EstimatedRental.InexactFloat64()},
		{"Valor total do estoque", s.InventoryValue.InexactFloat64()},
		{"Custo de materiais usados", s.MaterialsCost.InexactFloat64()},
		{"Resultado líquido", s.NetResult.InexactFloat64()},
		{"Clientes ativos", s.ActiveClients},
	}
	for i, line := range lines {
		row := i + 1
		if err := f.SetCellValue(summarySheet, cell(1, row), line.label); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell(2, row), line.value); err != nil {
			return err
		}
		if _, isMoney := line.value.(float64); isMoney {
			if err := f.SetCellStyle(summarySheet, cell(2, row), cell(2, row), money); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 30)
}

func writeDetails(f *excelize.File, r Report, header, money int) error {
	titles := []string{"Período", "Reservas", "Total negociado", "Valor estimado (itens)", "Pago", "Pendente", "Parcial"}
	for i, title := range titles {
		if err := f.SetCellValue(detailsSheet, cell(i+1, 1), title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(detailsSheet, cell(1, 1), cell(len(titles), 1), header); err != nil {
		return err
	}

	for i, row := range r.Rows {
		n := i + 2
		values := []any{row.Key, row.Bookings}
		for _, d := range []decimal.Decimal{row.Total, row.EstimatedRental, row.Paid, row.Pending, row.Partial} {
			values = append(values, d.InexactFloat64())
		}
		if err := f.SetSheetRow(detailsSheet, cell(1, n), &values); err != nil {
			return err
		}
	}
	if len(r.Rows) > 0 {
		if err := f.SetCellStyle(detailsSheet, cell(3, 2), cell(len(titles), len(r.Rows)+1), money); err != nil {
			return err
		}
	}
	return f.SetColWidth(detailsSheet, "A", "G", 20)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
