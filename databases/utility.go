package databases

import "go.mongodb.org/mongo-driver/bson"

// Page selects one window of a sorted listing. The zero Page selects everything.
type Page struct {
	Limit int64
	Page  int64
}

// NewPage builds a Page from 1-based page numbers. A limit of zero disables paging.
func NewPage(limit, page int) Page {
	if page < 1 {
		page = 1
	}
	return Page{Limit: int64(limit), Page: int64(page)}
}

func (p Page) skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return p.Page*p.Limit - p.Limit
}

// stages returns the $skip and $limit aggregation stages for the page
func (p Page) stages() []bson.M {
	if p.Limit <= 0 {
		return nil
	}
	return []bson.M{
		{"$skip": p.skip()},
		{"$limit": p.Limit},
	}
}
