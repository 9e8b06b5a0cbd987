package sqlstore

import (
	"errors"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"gorm.io/gorm"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// translateError maps driver errors onto domain sentinels so callers can
// pick a response without knowing the backend.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(domain.ErrConflict, err)
	}

	// Extended result codes share the low byte with SQLITE_CONSTRAINT.
	var serr *moderncsqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return errors.Join(domain.ErrConflict, err)
	}
	return err
}
