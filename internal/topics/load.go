package topics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pressrun/internal/services"
)

// Column names recognized in the input header row. Order is free; matching is
// case-insensitive.
const (
	columnTopic              = "topic"
	columnPrimaryKeywords    = "primary_keywords"
	columnAdditionalKeywords = "additional_keywords"
	columnTargetAudience     = "target_audience"
	columnToneStyle          = "tone_style"
	columnWordCount          = "word_count"
	columnOutline            = "custom_outline"
	columnCategories         = "categories"
	columnTags               = "tags"
	columnVideoRequired      = "video_required"
	columnScheduleAt         = "schedule_at"
)

var requiredColumns = []string{
	columnTopic,
	columnPrimaryKeywords,
	columnAdditionalKeywords,
	columnTargetAudience,
	columnToneStyle,
}

// RowIssue describes an input row that was skipped during loading. Row is the
// absolute row number in the file, counting the header as row 1.
type RowIssue struct {
	Row     int
	Message string
}

// Load reads the topics input file, dispatching on extension. Invalid rows
// are reported as issues and skipped; only file-level problems return an
// error. A file with a valid header and zero usable rows is not an error.
func Load(path string) ([]Topic, []RowIssue, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, services.Wrap(services.ErrNotFound, "topics", "load", fmt.Sprintf("input file %s does not exist", path), nil)
		}
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "input file is not readable", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", fmt.Sprintf("unsupported input format %q (expected .csv or .xlsx)", filepath.Ext(path)), nil)
	}
}

func loadCSV(path string) ([]Topic, []RowIssue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "open input file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "input file is empty", nil)
		}
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "read header row", err)
	}

	index, err := buildColumnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		loaded []Topic
		issues []RowIssue
	)
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			issues = append(issues, RowIssue{Row: row, Message: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}
		appendRow(record, index, row, &loaded, &issues)
	}
	return loaded, issues, nil
}

func loadXLSX(path string) ([]Topic, []RowIssue, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "open workbook", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "workbook has no sheets", nil)
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "read worksheet", err)
	}
	if len(rows) == 0 {
		return nil, nil, services.Wrap(services.ErrValidation, "topics", "load", "input file is empty", nil)
	}

	index, err := buildColumnIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		loaded []Topic
		issues []RowIssue
	)
	for i, record := range rows[1:] {
		appendRow(record, index, i+2, &loaded, &issues)
	}
	return loaded, issues, nil
}

func buildColumnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrValidation, "topics", "load", fmt.Sprintf("input file is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	return index, nil
}

// appendRow parses one data record and either appends a Topic or records the
// reason the row was skipped. Rows with no content at all are ignored.
func appendRow(record []string, index map[string]int, row int, loaded *[]Topic, issues *[]RowIssue) {
	if emptyRecord(record) {
		return
	}
	topic, err := parseRow(record, index)
	if err != nil {
		*issues = append(*issues, RowIssue{Row: row, Message: err.Error()})
		return
	}
	if err := topic.Validate(); err != nil {
		*issues = append(*issues, RowIssue{Row: row, Message: err.Error()})
		return
	}
	*loaded = append(*loaded, topic)
}

func parseRow(record []string, index map[string]int) (Topic, error) {
	topic := Topic{
		Topic:              cell(record, index, columnTopic),
		PrimaryKeywords:    cell(record, index, columnPrimaryKeywords),
		AdditionalKeywords: cell(record, index, columnAdditionalKeywords),
		TargetAudience:     cell(record, index, columnTargetAudience),
		ToneStyle:          cell(record, index, columnToneStyle),
		Categories:         SplitList(cell(record, index, columnCategories)),
		Tags:               SplitList(cell(record, index, columnTags)),
	}

	if raw := cell(record, index, columnWordCount); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return Topic{}, fmt.Errorf("word_count %q is not a number", raw)
		}
		if count <= 0 {
			return Topic{}, fmt.Errorf("word_count must be positive, got %d", count)
		}
		topic.WordCount = count
	}

	outline, err := ParseOutline(cell(record, index, columnOutline))
	if err != nil {
		return Topic{}, err
	}
	topic.Outline = outline

	video, err := parseBoolCell(cell(record, index, columnVideoRequired))
	if err != nil {
		return Topic{}, fmt.Errorf("video_required: %v", err)
	}
	topic.VideoRequired = video

	schedule, err := parseScheduleCell(cell(record, index, columnScheduleAt))
	if err != nil {
		return Topic{}, err
	}
	topic.ScheduleAt = schedule

	return topic, nil
}

func cell(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func emptyRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
