package models

// Check is the on-disk state of one model.
type Check struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Installed bool   `json:"installed"`
}

// Verify reports, for each id, whether its configured path exists.
func Verify(paths map[string]string) []Check {
	out := make([]Check, 0, len(paths))
	for _, e := range Catalog {
		p, ok := paths[e.ID]
		if !ok {
			continue
		}
		out = append(out, Check{ID: e.ID, Path: p, Installed: p != "" && exists(p)})
	}
	return out
}

// Installed reports whether path exists.
func Installed(path string) bool {
	return path != "" && exists(path)
}
