package pbs

// Row is one record of a tabular PBS payload, keyed by CSV header name.
// The upstream schema is not stable across schedules, so lookups that depend
// on fields known to move go through First.
type Row map[string]string

// Get returns the value for key, or the empty string when absent.
func (r Row) Get(key string) string {
	return r[key]
}

// First returns the value of the first candidate key that is present and
// non-empty. This is how schema drift in the upstream tables is absorbed:
// callers list every name the field has carried, newest first.
func (r Row) First(keys ...string) string {
	for _, key := range keys {
		if v := r[key]; v != "" {
			return v
		}
	}
	return ""
}
