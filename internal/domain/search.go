package domain

import "fmt"

type SortType string

const (
	SortNone      SortType = ""
	SortPriceAsc  SortType = "priceAsc"
	SortPriceDesc SortType = "priceDesc"
	SortStarDesc  SortType = "star"
)

// ParseSort accepts the wire names and a few long-form aliases.
func ParseSort(s string) (SortType, error) {
	switch s {
	case "":
		return SortNone, nil
	case "priceAsc", "priceAscending":
		return SortPriceAsc, nil
	case "priceDesc", "priceDescending":
		return SortPriceDesc, nil
	case "star", "starDesc", "starDescending":
		return SortStarDesc, nil
	}
	return SortNone, Invalid("sort", fmt.Sprintf("unknown sort %q", s))
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(p float64) bool { return p >= r.Min && p <= r.Max }

// SearchParameters is the persisted query intent of the storefront user.
type SearchParameters struct {
	City        string      `json:"city"`
	Keyword     string      `json:"keyword"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	StarFilters []int       `json:"starFilters"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	TagFilters  []string    `json:"tagFilters"`
}

// SearchPatch is a replace-if-present edit of SearchParameters.
type SearchPatch struct {
	City        *string     `json:"city,omitempty"`
	Keyword     *string     `json:"keyword,omitempty"`
	StartDate   *string     `json:"startDate,omitempty"`
	EndDate     *string     `json:"endDate,omitempty"`
	StarFilters *[]int      `json:"starFilters,omitempty"`
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	ClearPrice  bool        `json:"clearPriceRange,omitempty"`
	TagFilters  *[]string   `json:"tagFilters,omitempty"`
}

func (p SearchPatch) Apply(sp SearchParameters) SearchParameters {
	if p.City != nil {
		sp.City = *p.City
	}
	if p.Keyword != nil {
		sp.Keyword = *p.Keyword
	}
	if p.StartDate != nil {
		sp.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		sp.EndDate = *p.EndDate
	}
	if p.StarFilters != nil {
		sp.StarFilters = append([]int(nil), *p.StarFilters...)
	}
	if p.PriceRange != nil {
		r := *p.PriceRange
		sp.PriceRange = &r
	}
	if p.ClearPrice {
		sp.PriceRange = nil
	}
	if p.TagFilters != nil {
		sp.TagFilters = append([]string(nil), *p.TagFilters...)
	}
	return sp
}

// HotelsQuery is the public listing query. Page is 1-based.
type HotelsQuery struct {
	Page       int
	PageSize   int
	Sort       SortType
	Stars      []int
	PriceRange *PriceRange
	Keyword    string
	Tags       []string
}

// QueryFromSearch derives listing filters from persisted search parameters.
func QueryFromSearch(sp SearchParameters, page, pageSize int, sort SortType) HotelsQuery {
	return HotelsQuery{
		Page:       page,
		PageSize:   pageSize,
		Sort:       sort,
		Stars:      sp.StarFilters,
		PriceRange: sp.PriceRange,
		Keyword:    sp.Keyword,
		Tags:       sp.TagFilters,
	}
}

type HotelsPage struct {
	Items      []Hotel `json:"items"`
	TotalCount int     `json:"totalCount"`
}
