package csvimport

import "strings"

// SplitRows tokenizes raw CSV text into rows of fields. It supports
// double-quoted fields with embedded commas and newlines, "" as an
// escaped quote, and recognizes \n, \r\n, and bare \r as row
// terminators. A trailing blank line is discarded; empty input yields
// no rows. The function is pure and keeps no state across calls.
func SplitRows(content string) [][]string {
	var rows [][]string
	var currentRow []string
	var currentValue strings.Builder
	inQuotes := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '"' {
			if inQuotes && i+1 < len(content) && content[i+1] == '"' {
				currentValue.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}

		if !inQuotes && ch == ',' {
			currentRow = append(currentRow, currentValue.String())
			currentValue.Reset()
			continue
		}

		if !inQuotes && (ch == '\n' || ch == '\r') {
			if ch == '\r' && i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			currentRow = append(currentRow, currentValue.String())
			currentValue.Reset()
			rows = append(rows, currentRow)
			currentRow = nil
			continue
		}

		currentValue.WriteByte(ch)
	}

	// The final line has no terminator; keep it unless it is entirely empty
	currentRow = append(currentRow, currentValue.String())
	for _, value := range currentRow {
		if len(value) > 0 {
			return append(rows, currentRow)
		}
	}
	if len(rows) == 0 && len(content) > 0 {
		return append(rows, currentRow)
	}
	return rows
}
