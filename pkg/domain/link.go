package domain

// Link is a derived (parent, child) edge view. Links are not stored; they
// are computed on demand from node child lists, so the forward model stays
// free of reverse pointers that would need invariant maintenance.
type Link struct {
	From int `json:"from"`
	To   int `json:"to"`
}
