package config

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderMetadataTable renders the nested metadata map a Composition
// exposes (per-component and per-link entries) as a human-readable
// table for end-of-run summaries, one row per key of each section.
func RenderMetadataTable(metadata map[string]any) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Section", "Key", "Value"})

	sections := make([]string, 0, len(metadata))
	for k := range metadata {
		sections = append(sections, k)
	}
	sort.Strings(sections)

	for _, section := range sections {
		appendSection(t, section, metadata[section])
	}

	return t.Render()
}

func appendSection(t table.Writer, section string, value any) {
	nested, ok := value.(map[string]any)
	if !ok {
		t.AppendRow(table.Row{section, "", fmt.Sprintf("%v", value)})
		return
	}

	keys := make([]string, 0, len(nested))
	for k := range nested {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		t.AppendRow(table.Row{section, k, fmt.Sprintf("%v", nested[k])})
	}
}
