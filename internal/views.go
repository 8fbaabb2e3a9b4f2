package internal

import (
	"strings"

	"github.com/tushar-indygen/leadform"
)

// views.go derives the data models behind the dashboard views: table
// columns discovered from captured records, and kanban lanes grouped by
// lead status. The actual rendering widgets live in the host shell; this
// layer only decides what they show.

// viewIgnoredKeys are record keys that never surface as table columns.
// They are either rendered by dedicated widgets (status in the kanban,
// location in the detail pane) or are bookkeeping fields.
var viewIgnoredKeys = NewSet("status", "metadata", "location", "created_at", "updated_at")

// TableColumn is one column of the list view.
type TableColumn struct {
	Key   string
	Label string
}

// DeriveTableColumns discovers the list-view columns from the leaf keys of
// captured records. Column labels come from the active schema's field
// labels when a field with a matching id exists; otherwise the key itself
// is humanized.
func DeriveTableColumns(items []map[string]any, schema *leadform.FormSchema) []TableColumn {
	labels := map[string]string{}
	if schema != nil {
		labels = schema.FieldLabels()
	}
	keys := leadform.SortedLeafKeys(items)
	columns := make([]TableColumn, 0, len(keys))
	for _, key := range keys {
		if viewIgnoredKeys.Contains(key) {
			continue
		}
		label := labels[key]
		if label == "" {
			label = humanizeKey(key)
		}
		columns = append(columns, TableColumn{Key: key, Label: label})
	}
	return columns
}

// humanizeKey turns a snake_case record key into a display label.
func humanizeKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// defaultKanbanLanes are the board lanes shown when the host does not
// configure its own.
var defaultKanbanLanes = []string{"New", "In Progress", "Pending", "Completed"}

// KanbanLane is one lane of the kanban view.
type KanbanLane struct {
	Title string
	Items []map[string]any
}

// BuildKanbanBoard groups captured records into lanes by their status
// value, which may sit at the top level or nested under a container key.
// Records whose status matches no lane land in the first lane so nothing
// silently disappears from the board. Passing nil lanes uses the default
// lane set.
func BuildKanbanBoard(items []map[string]any, lanes []string) []KanbanLane {
	if len(lanes) == 0 {
		lanes = defaultKanbanLanes
	}
	board := make([]KanbanLane, len(lanes))
	index := make(map[string]int, len(lanes))
	for i, title := range lanes {
		board[i] = KanbanLane{Title: title}
		index[title] = i
	}
	for _, item := range items {
		lane := 0
		if v, ok := leadform.FindValueByKey(item, "status"); ok {
			if s, ok := v.(string); ok {
				if i, known := index[s]; known {
					lane = i
				}
			}
		}
		board[lane].Items = append(board[lane].Items, item)
	}
	return board
}
