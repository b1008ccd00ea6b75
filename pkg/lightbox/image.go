package lightbox

// Item is a gallery grid entry as harvested from the page or a directory.
type Item struct {
	// Source is the full-size image location (data-full).
	Source string
	// RawTitle is the unprocessed title attribute (data-title).
	RawTitle string
}

// ImageEntry is an image the viewer can display.
type ImageEntry struct {
	Source string
	Title  string
}

// Collect turns grid items into viewer entries, cleaning each title once.
func Collect(items []Item) []ImageEntry {
	es := make([]ImageEntry, 0, len(items))
	for _, it := range items {
		es = append(es, ImageEntry{Source: it.Source, Title: CleanTitle(it.RawTitle)})
	}
	return es
}
