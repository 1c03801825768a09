package models

// containsID reports whether id is present in ids
func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AddID appends id to ids unless it is already present
func AddID(ids []string, id string) ([]string, bool) {
	if containsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

// RemoveID returns ids without any occurrence of id
func RemoveID(ids []string, id string) ([]string, bool) {
	out := ids[:0:0]
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}
