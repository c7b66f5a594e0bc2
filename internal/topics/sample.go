package topics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var sampleHeader = []string{
	columnTopic,
	columnPrimaryKeywords,
	columnAdditionalKeywords,
	columnTargetAudience,
	columnToneStyle,
	columnWordCount,
	columnOutline,
	columnCategories,
	columnTags,
	columnVideoRequired,
	columnScheduleAt,
}

var sampleRows = [][]string{
	{
		"Sustainable urban gardening",
		"urban gardening, sustainability",
		"composting, container plants, balcony garden",
		"city dwellers without garden experience",
		"friendly and practical",
		"2500",
		`{"sections":[{"title":"Getting started","subsections":["Choosing containers","Picking soil"]},{"title":"Keeping plants alive"}]}`,
		"Gardening, Lifestyle",
		"gardening, urban",
		"yes",
		"",
	},
	{
		"Home espresso on a budget",
		"espresso, home coffee",
		"grinder, tamping, milk steaming, beans",
		"coffee enthusiasts",
		"enthusiastic but honest",
		"",
		"",
		"",
		"",
		"no",
		"",
	},
}

// WriteSample writes an example topics file to path, choosing the format by
// extension (.csv or .xlsx).
func WriteSample(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeSampleCSV(path)
	case ".xlsx":
		return writeSampleXLSX(path)
	default:
		return fmt.Errorf("unsupported sample format %q (expected .csv or .xlsx)", filepath.Ext(path))
	}
}

func writeSampleCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(sampleHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range sampleRows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write sample row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush sample file: %w", err)
	}
	return file.Close()
}

func writeSampleXLSX(path string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows := append([][]string{sampleHeader}, sampleRows...)
	for i, row := range rows {
		values := make([]any, len(row))
		for j, value := range row {
			values[j] = value
		}
		cellRef := fmt.Sprintf("A%d", i+1)
		if err := file.SetSheetRow(sheet, cellRef, &values); err != nil {
			return fmt.Errorf("write sample row: %w", err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save sample workbook: %w", err)
	}
	return nil
}
