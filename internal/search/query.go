package search

// Params describes a job board search request.
type Params struct {
	Term         string
	CategoryID   string
	WorkModel    string
	ContractType string
	Location     string
	SortBy       string
	From         int
	Size         int
}

// Sort orders accepted from the board.
const (
	SortRecent = "recent"
	SortTitle  = "title"
)

// BuildQuery assembles the Elasticsearch query body for a board search. Only
// open postings are ever matched; filters narrow by exact field values and
// the free text term searches title, description and requirements.
func BuildQuery(p Params) map[string]interface{} {
	must := []map[string]interface{}{}
	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"status": "OPEN"}},
	}

	if p.Term != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  p.Term,
				"fields": []string{"title^3", "description", "requirements"},
				"type":   "best_fields",
			},
		})
	}
	if p.CategoryID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"categoryId": p.CategoryID},
		})
	}
	if p.WorkModel != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"workModel": p.WorkModel},
		})
	}
	if p.ContractType != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"contractType": p.ContractType},
		})
	}
	if p.Location != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"location": p.Location},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if len(must) > 0 {
		boolQuery["must"] = must
	} else {
		boolQuery["must"] = []map[string]interface{}{
			{"match_all": map[string]interface{}{}},
		}
	}

	size := p.Size
	if size <= 0 {
		size = 50
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  p.From,
		"size":  size,
	}

	switch p.SortBy {
	case SortTitle:
		body["sort"] = []map[string]interface{}{
			{"title.keyword": map[string]interface{}{"order": "asc"}},
		}
	default:
		body["sort"] = []map[string]interface{}{
			{"createdAt": map[string]interface{}{"order": "desc"}},
		}
	}

	return body
}
