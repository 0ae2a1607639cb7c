// Package crawler implements the acquisition pipeline for the thesis listing
// site: fetching paginated listing pages, extracting records from their
// markup, and deduplicating the aggregate by canonical link.
package crawler

// Record is one thesis entry extracted from a listing page.
//
// Link is the natural key: two records with equal links are the same logical
// entity regardless of any other field. Records are value objects; nothing
// downstream of the parser mutates them.
type Record struct {
	Title      string
	Body       *string
	Link       string
	CompanyOIB *string
}
