// =============================================================================
// grape - Workbook Manifest Reader
// =============================================================================
//
// Teams that keep their dependency lists in spreadsheets can hand grape an
// .xlsx workbook instead of a .grape file. The workbook mirrors the INI layout:
//
//   Sheet "Config"                 Sheet "Dependencies"
//   +------------+-------------+   +--------------------+-----------+
//   | A: key     | B: value    |   | A: coordinate key  | B: ignored|
//   +------------+-------------+   +--------------------+-----------+
//   | version    | 1.0         |   | org.a;lib1;1.2     |           |
//   | groupid    | com.example |   | org.b;lib2;3.4     | note      |
//   +------------+-------------+   +--------------------+-----------+
//
// There is no header row. Empty rows are skipped. Errors use the same
// taxonomy as the INI reader.
//
// =============================================================================

package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook parses and validates an .xlsx manifest.
func ReadWorkbook(path, delimiter string) (*Descriptor, error) {
	if delimiter == "" {
		return nil, fmt.Errorf("dependency delimiter must not be empty")
	}

	// Open through os first so a missing file maps onto ErrManifestNotFound.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestNotFound, path, err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	descriptor, err := parseWorkbook(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	descriptor.Source = path

	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	return descriptor, nil
}

// parseWorkbook reads both sheets from an open workbook.
func parseWorkbook(f *excelize.File, delimiter string) (*Descriptor, error) {
	configRows, err := sheetRows(f, ConfigSection)
	if err != nil {
		return nil, err
	}

	dependencyRows, err := sheetRows(f, DependenciesSection)
	if err != nil {
		return nil, err
	}

	descriptor := &Descriptor{
		Options:      make(map[string]string, len(configRows)),
		Dependencies: make([]Dependency, 0, len(dependencyRows)),
	}

	for _, row := range configRows {
		key := strings.ToLower(cell(row, 0))
		if key == "" {
			continue
		}
		descriptor.Options[key] = cell(row, 1)
	}

	index := 0
	for _, row := range dependencyRows {
		line := cell(row, 0)
		if line == "" {
			continue
		}
		index++

		dep, err := ParseDependency(line, delimiter)
		if err != nil {
			return nil, &MalformedDependencyError{
				Line:      line,
				Index:     index,
				Delimiter: delimiter,
			}
		}
		descriptor.Dependencies = append(descriptor.Dependencies, dep)
	}

	return descriptor, nil
}

// sheetRows returns the non-empty rows of a named sheet.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	index, err := f.GetSheetIndex(name)
	if err != nil || index < 0 {
		return nil, &MissingSectionError{Section: name}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	var result [][]string
	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		result = append(result, row)
	}

	return result, nil
}

// cell safely returns a trimmed cell value.
func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
