package catalog

import "database/sql"

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func stringOrEmpty(value sql.NullString) string {
	if value.Valid {
		return value.String
	}
	return ""
}
