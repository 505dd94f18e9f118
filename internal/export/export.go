// Package export writes the farm directory as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/farm-biosecurity/internal/model"
)

// Unassigned stands in for a missing farmer or vet.
const Unassigned = "Unassigned"

// Header is the first row of every export.
var Header = []string{"Farm", "Farmer", "Vet", "Location", "Animals"}

// Rows flattens farms into export rows.
func Rows(farms []*model.Farm) [][]string {
	out := make([][]string, 0, len(farms))
	for _, f := range farms {
		farmer, vet := f.FarmerName, f.VetName
		if farmer == "" {
			farmer = Unassigned
		}
		if vet == "" {
			vet = Unassigned
		}
		out = append(out, []string{f.Name, farmer, vet, f.Location, strconv.Itoa(f.AnimalCount)})
	}
	return out
}

// WriteCSV writes the header and one line per farm.
func WriteCSV(w io.Writer, farms []*model.Farm) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	if err := cw.WriteAll(Rows(farms)); err != nil {
		return err
	}
	return cw.Error()
}

// SheetName is the worksheet used by WriteXLSX.
const SheetName = "Farms"

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
// The animal count column is written as a number.
func WriteXLSX(w io.Writer, farms []*model.Farm) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, toCells(Header)); err != nil {
		return err
	}
	for i, farm := range farms {
		row := toCells(Rows([]*model.Farm{farm})[0])
		row[4] = farm.AnimalCount
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, n int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
