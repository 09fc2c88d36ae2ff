package trips

import (
	"errors"
	"fmt"
)

var ErrInvalidPage = errors.New("invalid page")

// Page is one page of trip details.
type Page struct {
	Trips   []TripDetail `json:"trips"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// ValidatePage rejects pages below 1 and page sizes below 1.
func ValidatePage(page, perPage int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidPage, page)
	}
	if perPage < 1 {
		return fmt.Errorf("%w: per_page must be >= 1, got %d", ErrInvalidPage, perPage)
	}
	return nil
}

// Paginate slices list into the 1-based page of perPage items.
// A page past the end is empty, not an error.
func Paginate(list []TripDetail, page, perPage int) (Page, error) {
	if err := ValidatePage(page, perPage); err != nil {
		return Page{}, err
	}
	p := Page{
		Trips:   []TripDetail{},
		Total:   len(list),
		Page:    page,
		PerPage: perPage,
	}
	start := (page - 1) * perPage
	if start >= len(list) || start < 0 {
		return p, nil
	}
	end := min(start+perPage, len(list))
	p.Trips = list[start:end]
	return p, nil
}
