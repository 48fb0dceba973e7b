package drive

// Properties is the tracked app-property map for a Drive file.
type Properties map[string]string

// Merge returns a new map containing base overlaid with overrides. Empty
// override values are skipped so they cannot blank out an existing key.
// Drive patches replace the tracked map wholesale, so every patch call site
// must send the full merged result rather than a delta.
func Merge(base map[string]string, overrides map[string]string) Properties {
	merged := make(Properties, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			continue
		}
		merged[k] = v
	}
	return merged
}
