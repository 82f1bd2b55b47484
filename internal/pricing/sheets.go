package pricing

// SourceFile is an uploaded document as reported by file ingestion.
// AdjustedPageCount is what gets priced; ActualPageCount is what was read.
type SourceFile struct {
	Name              string `json:"name,omitempty"`
	ActualPageCount   int    `json:"actual_page_count"`
	AdjustedPageCount int    `json:"adjusted_page_count"`
}

// NewSourceFile records a file's page count, rounding it for double-sided print.
func NewSourceFile(name string, actualPages int, sides Sidedness) SourceFile {
	return SourceFile{
		Name:              name,
		ActualPageCount:   actualPages,
		AdjustedPageCount: AdjustedPageCount(actualPages, sides),
	}
}

// AdjustedPageCount rounds an odd page count up to the next even number for
// double-sided printing, so every file starts on a fresh sheet.
func AdjustedPageCount(actualPages int, sides Sidedness) int {
	if sides == DoubleSided && actualPages%2 != 0 {
		return actualPages + 1
	}
	return actualPages
}

// ResolvePageCount sums the adjusted pages of files, or falls back to the
// manually entered count when no files were uploaded.
func ResolvePageCount(files []SourceFile, manualPages int) int {
	if len(files) == 0 {
		return manualPages
	}
	total := 0
	for _, f := range files {
		total += f.AdjustedPageCount
	}
	return total
}

// ActualPageCount sums the pages as read from the files, or the manual count.
func ActualPageCount(files []SourceFile, manualPages int) int {
	if len(files) == 0 {
		return manualPages
	}
	total := 0
	for _, f := range files {
		total += f.ActualPageCount
	}
	return total
}

// SheetsPerCopy returns the physical sheets one series consumes.
func SheetsPerCopy(pageCount int, sides Sidedness) int {
	if pageCount <= 0 {
		return 0
	}
	if sides == DoubleSided {
		return (pageCount + 1) / 2
	}
	return pageCount
}
