package repository

import (
	"fmt"
	"strings"

	"flowsync/internal/models"
)

// buildUpdate renders "UPDATE table SET ... WHERE idCol = $n" from a patch.
// Column names come from the service allow-lists, never from the client.
func buildUpdate(table, idCol string, id int64, patch models.Patch, extra ...string) (string, []any) {
	sets := make([]string, 0, len(patch)+len(extra))
	args := make([]any, 0, len(patch)+1)

	for _, ch := range patch {
		if ch.Now {
			sets = append(sets, ch.Column+" = NOW()")
			continue
		}
		args = append(args, ch.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", ch.Column, len(args)))
	}
	sets = append(sets, extra...)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(sets, ", "), idCol, len(args))
	return query, args
}
