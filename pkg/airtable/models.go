package airtable

// Field names in the existing base. The column names predate this tool and
// are part of the base's schema, including the slash and parentheses.
const (
	FieldTagName = "Tagname"
	FieldActive  = "Active"

	FieldMediaID       = "MediaID"
	FieldMediaType     = "MediaType"
	FieldMediaURL      = "MediaURL"
	FieldPermalink     = "Permalink"
	FieldCaption       = "Caption"
	FieldLikeCount     = "LikeCount"
	FieldCommentsCount = "CommentsCount"
	FieldTimestamp     = "Timestamp"
	FieldScore         = "Rank/Sort"
	FieldHashtags      = "Hashtag(s)"
)

// Tag is a row in the tags table
type Tag struct {
	ID     string
	Name   string
	Active bool
}

// Fields is a partial Airtable field map. Fields absent from the map are left
// untouched by the store on update.
type Fields map[string]interface{}

// Record is a raw Airtable record
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// StringField returns a string field value, or "" when absent or mistyped
func (r *Record) StringField(name string) string {
	if s, ok := r.Fields[name].(string); ok {
		return s
	}
	return ""
}

// BoolField returns a checkbox field value, or false when absent
func (r *Record) BoolField(name string) bool {
	if b, ok := r.Fields[name].(bool); ok {
		return b
	}
	return false
}

// LinkedIDs returns the record ids held in a link field. Airtable serializes
// link fields as arrays of record id strings.
func (r *Record) LinkedIDs(name string) []string {
	raw, ok := r.Fields[name].([]interface{})
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// recordList is the response shape of a list/select call
type recordList struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// recordEntry is a single record in a write payload
type recordEntry struct {
	ID     string `json:"id,omitempty"`
	Fields Fields `json:"fields"`
}

// writePayload is the request shape of create and update calls. Typecast lets
// the store coerce strings into dates and numbers server side.
type writePayload struct {
	Records  []recordEntry `json:"records"`
	Typecast bool          `json:"typecast"`
}
