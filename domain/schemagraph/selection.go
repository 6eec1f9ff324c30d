package schemagraph

// ResolveSelection returns every cached record whose __typename equals the
// selected node's id. A nil selection resolves to an empty map.
func ResolveSelection(cache EntityCache, selection *GraphNode) map[string]EntityRecord {
	selected := make(map[string]EntityRecord)
	if selection == nil {
		return selected
	}

	for key, record := range cache {
		if name, ok := record.Typename(); ok && name == selection.ID {
			selected[key] = record
		}
	}
	return selected
}
