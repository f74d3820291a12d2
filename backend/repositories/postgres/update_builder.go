package postgres

import (
	"fmt"
	"strings"
)

// setClause accumulates "col = $n" assignments for partial updates.
type setClause struct {
	assignments []string
	args        []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.assignments = append(s.assignments, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// raw appends an assignment that takes no argument, e.g. "updated_at = NOW()"
func (s *setClause) raw(assignment string) {
	s.assignments = append(s.assignments, assignment)
}

func (s *setClause) empty() bool {
	return len(s.assignments) == 0
}

// build renders "UPDATE table SET ... WHERE id = $n RETURNING returning"
func (s *setClause) build(table string, id int64, returning string) (string, []interface{}) {
	args := append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(s.assignments, ", "), len(args), returning)
	return query, args
}
