package excel

// RawData is a sheet as read: trimmed header names and row-major string cells
type RawData struct {
	Headers []string
	Rows    [][]string
}
