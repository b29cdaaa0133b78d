// internal/workers/search/search-offerings/query.go
package searchofferings

// buildSearchQuery assembles the Elasticsearch request body. Text relevance
// weights title highest, then description, then the joined company fields.
// Only live offerings are searchable.
func buildSearchQuery(input *Input) map[string]interface{} {
	mustClauses := []interface{}{
		map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"title^3", "description^2", "company_name", "sector"},
				"type":   "best_fields",
			},
		},
	}

	filterClauses := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": "live"},
		},
	}
	if input.Sector != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"sector": input.Sector},
		})
	}
	if input.Stage != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"stage": input.Stage},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustClauses,
				"filter": filterClauses,
			},
		},
	}
}
