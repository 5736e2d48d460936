package domain

type CatalogState int

const (
	CatalogIdle CatalogState = iota
	CatalogLoading
	CatalogPopulated
	CatalogEmpty
)

func (s CatalogState) String() string {
	switch s {
	case CatalogIdle:
		return "idle"
	case CatalogLoading:
		return "loading"
	case CatalogPopulated:
		return "populated"
	case CatalogEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
