package google

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/teemow/sheetexport/internal/export"
)

// MapError wraps Google API errors with the matching export sentinel so
// callers can classify them with errors.Is.
// 404 maps to export.ErrNotFound and 403 to export.ErrPermissionDenied;
// other errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", export.ErrNotFound, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", export.ErrPermissionDenied, err)
	default:
		return err
	}
}
