package repository

import (
	"database/sql"
	"strings"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	apperrors "github.com/allisson/apivault/internal/errors"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using the default backslash escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// requireAffected maps an update that matched no row to ErrAPIKeyNotFound.
func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	return nil
}

func scanCategoryCounts(rows *sql.Rows) ([]apikeyDomain.CategoryCount, error) {
	counts := make([]apikeyDomain.CategoryCount, 0)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan category count")
		}
		counts = append(counts, apikeyDomain.CategoryCount{
			Category: apikeyDomain.Category(category),
			Count:    count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate category counts")
	}
	return counts, nil
}
