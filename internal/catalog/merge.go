package catalog

// EntryFields are the scalar columns subject to the fill-unset merge rule.
type EntryFields struct {
	ExternalID  string
	SearchToken string
	Title       string
	PlatformID  string
	BoxartURL   string
}

// Field names reported by MergeFields.
const (
	FieldExternalID  = "external_id"
	FieldSearchToken = "search_token"
	FieldTitle       = "title"
	FieldPlatform    = "platform"
	FieldBoxartURL   = "boxart_url"
)

// MergeFields applies the per-field rule used when a record lands on an
// existing entry: a field keeps its current value when set and takes the
// incoming value only when unset. The names of filled fields are returned in
// column order.
func MergeFields(existing, incoming EntryFields) (EntryFields, []string) {
	merged := existing
	var filled []string
	fill := func(name string, dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			filled = append(filled, name)
		}
	}
	fill(FieldExternalID, &merged.ExternalID, incoming.ExternalID)
	fill(FieldSearchToken, &merged.SearchToken, incoming.SearchToken)
	fill(FieldTitle, &merged.Title, incoming.Title)
	fill(FieldPlatform, &merged.PlatformID, incoming.PlatformID)
	fill(FieldBoxartURL, &merged.BoxartURL, incoming.BoxartURL)
	return merged, filled
}
