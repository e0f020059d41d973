package middleware

import (
	"net/http"
	"runtime/debug"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/auth"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// Recovery turns a panicking handler into a 500 envelope. Aborted handlers
// (http.ErrAbortHandler) are re-panicked so net/http can drop the connection.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint
					panic(rec)
				}

				userID := ""
				if id, ok := auth.GetUserID(r); ok {
					userID = strconv.FormatInt(id, 10)
				}
				logger := utils.RequestLogger(chimiddleware.GetReqID(r.Context()), userID, r.Method, r.URL.Path)
				utils.LogPanic(logger, rec, debug.Stack())

				utils.Error(w, constants.StatusInternalServerError, constants.CodeInternalError,
					constants.MsgInternalServerError, nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
