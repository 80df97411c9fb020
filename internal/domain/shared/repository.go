package shared

// Filter carries the common list query options. Repositories translate it
// into WHERE, ORDER BY and LIMIT clauses; unknown keys in Filters are
// ignored rather than rejected.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
