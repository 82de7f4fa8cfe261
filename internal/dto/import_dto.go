package dto

// ImportResults is the batch outcome of a bulk import. Errors are ordered by
// source row and read "Row N: reason".
type ImportResults struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

type BulkImportResponse struct {
	Success bool          `json:"success"`
	Results ImportResults `json:"results"`
}
