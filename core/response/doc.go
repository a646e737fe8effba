// Package response writes JSON bodies and structured HTTPError values for
// net/http handlers.
//
//	if err != nil {
//		_ = response.Error(w, response.ErrNotFound.WithError(err))
//		return
//	}
//	_ = response.JSON(w, http.StatusOK, rec)
//
// Error bodies have the shape {"code": "...", "message": "...", "details": {...}}.
// Unknown errors are reported as a bare 500 so internal messages never leak.
package response
