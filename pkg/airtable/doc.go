// Package airtable provides a typed client for the Airtable REST API, scoped
// to the two tables the sync run touches: the tags table and the posts table.
//
// Queries use filterByFormula predicates built by the formula helpers in this
// package; the helpers own the single-quote escaping rule so tag names and
// media ids with embedded quotes cannot produce malformed filters.
//
// Updates are partial: a PATCH only touches the fields present in the payload,
// which is what lets the sync engine leave a post's hashtag link set alone
// when it has nothing to add.
//
// Example usage:
//
//	client := airtable.NewClient(&cfg.Airtable, 30*time.Second, log)
//
//	tags, err := client.ListActiveTags()
//	if err != nil {
//	    // a failed listing is fatal for a sync run
//	}
//
//	rec, err := client.FindPostByMediaID("17899305451119263")
//	if rec == nil && err == nil {
//	    // no post for this media id yet
//	}
package airtable
